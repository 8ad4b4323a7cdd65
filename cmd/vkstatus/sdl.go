package main

import (
	"unsafe"

	"github.com/pkg/errors"
	"github.com/veandco/go-sdl2/sdl"
)

// sdlVulkan loads Vulkan through SDL and asks a hidden window which
// instance extensions presentation needs
func sdlVulkan() (unsafe.Pointer, []string, func(), error) {
	if err := sdl.Init(sdl.INIT_VIDEO); err != nil {
		return nil, nil, nil, errors.Wrap(err, "sdl.Init")
	}
	if err := sdl.VulkanLoadLibrary(""); err != nil {
		sdl.Quit()
		return nil, nil, nil, errors.Wrap(err, "sdl.VulkanLoadLibrary")
	}
	cleanup := func() {
		sdl.VulkanUnloadLibrary()
		sdl.Quit()
	}

	window, err := sdl.CreateWindow("vkstatus",
		sdl.WINDOWPOS_UNDEFINED,
		sdl.WINDOWPOS_UNDEFINED,
		1, 1,
		sdl.WINDOW_VULKAN|sdl.WINDOW_HIDDEN)
	if err != nil {
		cleanup()
		return nil, nil, nil, errors.Wrap(err, "sdl.CreateWindow")
	}
	extensions := window.VulkanGetInstanceExtensions()
	window.Destroy()

	return sdl.VulkanGetVkGetInstanceProcAddr(), extensions, cleanup, nil
}
