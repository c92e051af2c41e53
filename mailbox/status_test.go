package mailbox

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStatusVariants(t *testing.T) {
	fixtures := []struct {
		status  Status
		isError bool
		valid   bool
		unseen  uint32
		normal  bool
		text    string
	}{
		{Status{}, false, false, 0, false, "invalid"},
		{ErrorStatus(), true, true, 0, false, "error"},
		{NormalStatus(0), false, true, 0, true, "normal(0)"},
		{NormalStatus(12), false, true, 12, true, "normal(12)"},
	}

	for _, fixture := range fixtures {
		t.Run(fixture.text, func(t *testing.T) {
			assert.Equal(t, fixture.isError, fixture.status.IsError())
			assert.Equal(t, fixture.valid, fixture.status.IsValid())
			unseen, ok := fixture.status.Unseen()
			assert.Equal(t, fixture.normal, ok)
			assert.Equal(t, fixture.unseen, unseen)
			assert.Equal(t, fixture.text, fixture.status.String())
		})
	}
}

func TestErrorAndZeroUnseenAreDifferent(t *testing.T) {
	assert.NotEqual(t, ErrorStatus(), NormalStatus(0))
	assert.Equal(t, NormalStatus(3), NormalStatus(3))
}
