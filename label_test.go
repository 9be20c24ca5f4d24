package jmhbench

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLabel(t *testing.T) {
	cases := []struct {
		name   string
		policy ShortNamePolicy
		label  string
		short  bool
	}{
		{"org.bverify.throughput.SingleThreadedProofGeneration.run", ShortNameEmpty, "SingleThreadedProofGeneration.run", false},
		{"benchmark.pkg.ClassXMethodFoo", ShortNameEmpty, "hodFoo", false},
		{"abcdefghij", ShortNameEmpty, "", true},
		{"abcdefghij", ShortNameWhole, "abcdefghij", true},
		{"org.bverify.throughput.", ShortNameEmpty, "", true},
		{"org.bverify.throughput.", ShortNameWhole, "org.bverify.throughput.", true},
		{"org.bverify.throughput.é", ShortNameEmpty, "é", false},
	}
	for _, c := range cases {
		l := Labeler{PrefixLength: DefaultLabelPrefixLength, Policy: c.policy}
		label, short := l.Label(c.name)
		assert.Equal(t, c.label, label, c.name)
		assert.Equal(t, c.short, short, c.name)
	}
}

func TestLabelZeroPrefix(t *testing.T) {
	label, short := Labeler{Policy: ShortNameEmpty}.Label("Bench.run")
	assert.Equal(t, "Bench.run", label)
	assert.False(t, short)
}
