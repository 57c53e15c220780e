package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHasProduct(t *testing.T) {
	plain := Message{Text: "hello"}
	assert.False(t, plain.HasProduct())

	withProduct := Message{Text: "is this still available?", ProductID: "p1"}
	assert.True(t, withProduct.HasProduct())
}
