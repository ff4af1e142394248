// Copyright 2026 The nesnes Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package display

import (
	"github.com/hajimehoshi/ebiten/v2"

	"github.com/nesnes-emu/nesnes/controller"
)

// Keymap binds keyboard keys to the buttons of the first joypad.
var Keymap = map[ebiten.Key]controller.Button{
	ebiten.KeyX:          controller.ButtonA,
	ebiten.KeyZ:          controller.ButtonB,
	ebiten.KeyShiftRight: controller.ButtonSelect,
	ebiten.KeyEnter:      controller.ButtonStart,
	ebiten.KeyArrowUp:    controller.ButtonUp,
	ebiten.KeyArrowDown:  controller.ButtonDown,
	ebiten.KeyArrowLeft:  controller.ButtonLeft,
	ebiten.KeyArrowRight: controller.ButtonRight,
}

// readButtons returns the buttons whose keys pressed reports as held.
func readButtons(pressed func(ebiten.Key) bool) controller.Button {
	var b controller.Button
	for key, btn := range Keymap {
		if pressed(key) {
			b |= btn
		}
	}
	return b
}
