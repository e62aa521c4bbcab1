// SPDX-License-Identifier: Unlicense OR MIT

package input

import (
	"encoding/binary"

	"inkwm.org/io/key"
)

// Linux evdev event types and codes, limited to the subset the
// engine decodes.
const (
	evSyn uint16 = 0x00
	evKey uint16 = 0x01
	evAbs uint16 = 0x03

	synReport uint16 = 0x00

	absX        uint16 = 0x00
	absY        uint16 = 0x01
	absPressure uint16 = 0x18
	absDistance uint16 = 0x19
	absTiltX    uint16 = 0x1a
	absTiltY    uint16 = 0x1b

	absMTSlot        uint16 = 0x2f
	absMTTouchMajor  uint16 = 0x30
	absMTTouchMinor  uint16 = 0x31
	absMTOrientation uint16 = 0x34
	absMTPositionX   uint16 = 0x35
	absMTPositionY   uint16 = 0x36
	absMTTrackingID  uint16 = 0x39
	absMTPressure    uint16 = 0x3a

	btnToolPen    uint16 = 0x140
	btnToolRubber uint16 = 0x141
	btnTouch      uint16 = 0x14a
	btnStylus     uint16 = 0x14b

	keyPower uint16 = 116
)

// rawEventSize is the size of struct input_event on 64-bit kernels:
// two 64-bit timestamp words, type, code and value.
const rawEventSize = 24

// rawEvent is one decoded struct input_event. The timestamp is not
// used.
type rawEvent struct {
	Type  uint16
	Code  uint16
	Value int32
}

func decodeRawEvent(b []byte) rawEvent {
	return rawEvent{
		Type:  binary.LittleEndian.Uint16(b[16:]),
		Code:  binary.LittleEndian.Uint16(b[18:]),
		Value: int32(binary.LittleEndian.Uint32(b[20:])),
	}
}

// scancodes maps evdev key codes to the physical scancodes of the
// Type Folio.
var scancodes = map[uint16]key.Scancode{
	2:  key.ScanNum1,
	3:  key.ScanNum2,
	4:  key.ScanNum3,
	5:  key.ScanNum4,
	6:  key.ScanNum5,
	7:  key.ScanNum6,
	8:  key.ScanNum7,
	9:  key.ScanNum8,
	10: key.ScanNum9,
	11: key.ScanNum0,
	13: key.ScanHyphen, // KEY_EQUAL: the folio labels this key "-"
	14: key.ScanBackspace,

	15: key.ScanTab,
	16: key.ScanQ,
	17: key.ScanW,
	18: key.ScanE,
	19: key.ScanR,
	20: key.ScanT,
	21: key.ScanY,
	22: key.ScanU,
	23: key.ScanI,
	24: key.ScanO,
	25: key.ScanP,
	41: key.ScanGrave,
	43: key.ScanTilde,

	58: key.ScanCapsLock,
	30: key.ScanA,
	31: key.ScanS,
	32: key.ScanD,
	33: key.ScanF,
	34: key.ScanG,
	35: key.ScanH,
	36: key.ScanJ,
	37: key.ScanK,
	38: key.ScanL,
	39: key.ScanSemicolon,
	40: key.ScanApostrophe,
	28: key.ScanEnter,

	42: key.ScanLeftShift,
	44: key.ScanZ,
	45: key.ScanX,
	46: key.ScanC,
	47: key.ScanV,
	48: key.ScanB,
	49: key.ScanN,
	50: key.ScanM,
	51: key.ScanComma,
	52: key.ScanPeriod,
	53: key.ScanSlash,
	54: key.ScanRightShift,

	29:  key.ScanCtrl,
	107: key.ScanOpt, // KEY_END: the folio's Opt key
	56:  key.ScanAlt,
	57:  key.ScanSpace,
	100: key.ScanAltOpt, // KEY_RIGHTALT
	105: key.ScanArrowLeft,
	103: key.ScanArrowUp,
	108: key.ScanArrowDown,
	106: key.ScanArrowRight,

	keyPower: key.ScanPower,
}

// keyKind maps an evdev key value to an event kind. ok is false for
// values outside the known set.
func keyKind(value int32) (key.Kind, bool) {
	switch value {
	case 0:
		return key.Release, true
	case 1:
		return key.Press, true
	case 2:
		return key.Repeat, true
	default:
		return 0, false
	}
}
