package common

// WipeByteArray overwrites b with zeros. It is used on password buffers
// once they are no longer needed.
func WipeByteArray(b []byte) {
	for i := range b {
		b[i] = 0
	}
}
