package loader

import "fmt"

// ResultError is a VkResult other than VK_SUCCESS returned by a call
type ResultError struct {
	Call   string
	Result int32
}

func (e *ResultError) Error() string {
	return fmt.Sprintf("%s(): %s", e.Call, ResultName(e.Result))
}

// ResultName gives the VkResult enumerant name of a result code
func ResultName(result int32) string {
	switch result {
	case 0:
		return "VK_SUCCESS"
	case 1:
		return "VK_NOT_READY"
	case 2:
		return "VK_TIMEOUT"
	case 5:
		return "VK_INCOMPLETE"
	case -1:
		return "VK_ERROR_OUT_OF_HOST_MEMORY"
	case -2:
		return "VK_ERROR_OUT_OF_DEVICE_MEMORY"
	case -3:
		return "VK_ERROR_INITIALIZATION_FAILED"
	case -4:
		return "VK_ERROR_DEVICE_LOST"
	case -6:
		return "VK_ERROR_LAYER_NOT_PRESENT"
	case -7:
		return "VK_ERROR_EXTENSION_NOT_PRESENT"
	case -8:
		return "VK_ERROR_FEATURE_NOT_PRESENT"
	case -9:
		return "VK_ERROR_INCOMPATIBLE_DRIVER"
	case -13:
		return "VK_ERROR_UNKNOWN"
	}
	return fmt.Sprintf("VkResult(%d)", result)
}
