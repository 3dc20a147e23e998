package vulkan

import vk "github.com/goki/vulkan"

/**
 * @brief Size value meaning "from the start offset to the end of the buffer".
 */
const WholeSize = ^vk.DeviceSize(0)

/**
 * @brief Image layout of binding items that were never assigned.
 */
const UnsetImageLayout = vk.ImageLayoutUndefined
