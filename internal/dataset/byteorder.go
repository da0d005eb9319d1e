package dataset

// SwapBytes reverses each elemSize-wide element of data in place. Readers
// use it to normalize big-endian payloads to the little-endian layout the
// model requires. Element widths of 0 and 1 are no-ops.
func SwapBytes(data []byte, elemSize int) {
	if elemSize < 2 {
		return
	}
	for offset := 0; offset+elemSize <= len(data); offset += elemSize {
		for i, j := offset, offset+elemSize-1; i < j; i, j = i+1, j-1 {
			data[i], data[j] = data[j], data[i]
		}
	}
}
