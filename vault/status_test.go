package vault

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDescribeStatus(t *testing.T) {
	msg, ok := DescribeStatus(StatusItemNotFound)
	assert.True(t, ok)
	assert.Equal(t, "The specified item could not be found in the keychain.", msg)

	msg, ok = DescribeStatus(Status(-99999))
	assert.False(t, ok)
	assert.Empty(t, msg)
}

func TestStatus_String(t *testing.T) {
	assert.Equal(t, "No error.", StatusSuccess.String())
	assert.Equal(t, "OSStatus -99999", Status(-99999).String())
}

func TestStatusFromExitCode(t *testing.T) {
	tests := []struct {
		code int
		want Status
	}{
		{code: 0, want: StatusSuccess},
		{code: 44, want: StatusItemNotFound},
		{code: 45, want: StatusDuplicateItem},
		{code: 51, want: StatusAuthFailed},
		{code: 128, want: StatusUserCanceled},
		{code: 1, want: StatusIO},
		{code: 255, want: StatusIO},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, statusFromExitCode(tt.code), "exit code %d", tt.code)
	}
}
