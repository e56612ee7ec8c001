package sql

import (
	"context"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
)

func TestContextCancelled(t *testing.T) {
	base, cancel := context.WithCancel(context.Background())
	c := NewContext(base, logrus.New(), nil)
	assert.False(t, c.Cancelled())
	cancel()
	assert.True(t, c.Cancelled())
}

func TestWithLogFieldsPreservesContext(t *testing.T) {
	c := NewEmptyContext()
	derived := c.WithLogFields(logrus.Fields{"alias": "u"})
	assert.Equal(t, c.Context, derived.Context)
	assert.NotNil(t, derived.Logger)
}

func TestStartSpanReturnsFinishFunc(t *testing.T) {
	c := NewEmptyContext()
	finish := c.StartSpan("test")
	assert.NotPanics(t, finish)
}
