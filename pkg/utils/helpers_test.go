package utils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestCalculateMD5(t *testing.T) {
	assert.Equal(t, "d41d8cd98f00b204e9800998ecf8427e", CalculateMD5(nil))
	assert.Equal(t, "5d41402abc4b2a76b9719d911017c592", CalculateMD5([]byte("hello")))
}

func TestFilenames(t *testing.T) {
	assert.Equal(t, ".pdf", FileExt("CV.PDF"))
	assert.Equal(t, "", FileExt("README"))
	assert.Equal(t, "cv.pdf", CleanFilename(`C:\Users\me\cv.pdf`))
	assert.Equal(t, "cv.pdf", CleanFilename("../../cv.pdf"))
	assert.Equal(t, "", CleanFilename(""))
}

func TestTimePtr(t *testing.T) {
	assert.Nil(t, TimePtr(time.Time{}))
	now := time.Now()
	assert.Equal(t, now, *TimePtr(now))
}
