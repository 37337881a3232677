package anynil_test

import (
	"testing"

	"github.com/jackc/pgxadapt/internal/anynil"
	"github.com/stretchr/testify/assert"
)

func TestIs(t *testing.T) {
	var nilMap map[string]int
	var nilFunc func()
	var nilPtr *int

	for _, v := range []any{nil, []byte(nil), nilMap, nilFunc, nilPtr, (chan int)(nil)} {
		assert.True(t, anynil.Is(v), "%T", v)
	}

	for _, v := range []any{0, "", []byte{}, map[string]int{}, new(int), struct{}{}} {
		assert.False(t, anynil.Is(v), "%T", v)
	}
}
