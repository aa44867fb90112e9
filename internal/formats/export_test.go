package formats

// SetMaxDecodedSize lowers the decompressed size limit for a test.
func SetMaxDecodedSize(n int64) (restore func()) {
	old := maxDecodedSize
	maxDecodedSize = n
	return func() { maxDecodedSize = old }
}
