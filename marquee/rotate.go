package marquee

import "unicode/utf8"

// RotateForward moves the first character to the end: "abcd" -> "bcda".
// Bytes that are not valid UTF-8 move as single characters and are never rewritten.
func RotateForward(s string) string {
	_, size := utf8.DecodeRuneInString(s)
	return s[size:] + s[:size]
}

// RotateBackward moves the last character to the front: "abcd" -> "dabc".
// Empty input is returned unchanged.
func RotateBackward(s string) string {
	_, size := utf8.DecodeLastRuneInString(s)
	cut := len(s) - size
	return s[cut:] + s[:cut]
}
