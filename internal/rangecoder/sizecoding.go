package rangecoder

import "github.com/twim/twim/internal/rangecode"

func writeSize(dst rangecode.NumberWriter, value uint32) {
	rangecode.WriteSize(dst, value)
}

func readSize(src rangecode.NumberReader) uint32 {
	return rangecode.ReadSize(src)
}
