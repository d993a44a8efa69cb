package internal

import (
	"maps"
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestConcat2(t *testing.T) {
	assert := assert.New(t)

	a := map[string]string{"A": "1"}
	b := map[string]string{"B": "2", "C": "3"}

	got := maps.Collect(Concat2(maps.All(a), nil, maps.All(b)))
	assert.Equal(map[string]string{"A": "1", "B": "2", "C": "3"}, got)
}

func TestConcat2_Stop(t *testing.T) {
	assert := assert.New(t)

	first := slices.All([]int{10, 20})
	second := slices.All([]int{30})

	var seen []int
	for _, v := range Concat2(first, second) {
		seen = append(seen, v)
		if v == 20 {
			break
		}
	}
	assert.Equal([]int{10, 20}, seen)
}
