// Package mc implements the wire level of the MELSEC communication (MC) protocol, 3E frame in ASCII code.
//
// A 3E ASCII frame is plain text: every numeric header field is written as fixed-width upper-case hex
// digits, followed by a command payload that names a device (a typed area of PLC memory such as "D" data
// registers or "X" inputs), a start address, a point count and, for writes, the values.
//
// Key Features:
//   - Frame construction: BuildCommand assembles a request frame from a FrameProfile, a command,
//     a sub-command, a Device and the point count.
//   - Response parsing: ParseCompletionCode and ResponsePayload cut a response at its fixed offsets,
//     DecodeBitPayload and DecodeWordPayload turn the payload into Word values.
//   - Device addressing: IsBitAddressed and AddressingModeOf classify device type codes.
//   - Server side helpers: ParseRequest and BuildResponse, used by simulators and tests.
//
// Word byte order:
//
// Word values travel as the hex text of their two bytes with each 16-bit pair swapped relative to the
// host's little-endian layout, so the word 0x1234 is written "1234" and the word 1 is written "0001".
//
// Usage Example:
//
//	dev := mc.Device{Type: "D", Address: 1000}
//	frame, err := mc.BuildCommand(mc.DefaultFrameProfile(), mc.CmdBatchWrite, mc.SubCmdWord, dev, 1, []mc.Word{1})
//	// frame == "500000FF03FF00001C001014010000D*00100000010001"
package mc
