package seam

import (
	"testing"
	"testing/quick"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Faultbox/meshio/pkg/mesh"
)

func TestDecode_TwoSequences(t *testing.T) {
	seqs, err := Decode([]uint32{2, 3, 1, 5, 6, 7, 2, 0, 9, 10})
	require.NoError(t, err)
	require.Len(t, seqs, 2)

	assert.Equal(t, []uint32{5, 6, 7}, seqs[0].Indices)
	assert.True(t, seqs[0].IsLoop)
	assert.Equal(t, []uint32{9, 10}, seqs[1].Indices)
	assert.False(t, seqs[1].IsLoop)
}

func TestDecode_Empty(t *testing.T) {
	seqs, err := Decode([]uint32{0})
	require.NoError(t, err)
	assert.Empty(t, seqs)

	seqs, err = Decode([]uint32{1, 0, 0})
	require.NoError(t, err)
	require.Len(t, seqs, 1)
	assert.Empty(t, seqs[0].Indices)
}

func TestDecode_Malformed(t *testing.T) {
	tests := []struct {
		name string
		buf  []uint32
	}{
		{"empty buffer", nil},
		{"count past end", []uint32{3, 1, 0, 4}},
		{"huge count", []uint32{0xFFFFFFFF}},
		{"missing header", []uint32{2, 1, 0, 4, 1}},
		{"indices past end", []uint32{1, 4, 0, 1, 2}},
		{"huge length", []uint32{1, 0xFFFFFFFF, 1, 0}},
		{"count with sign bit", []uint32{0x80000000, 1, 0, 5}},
		{"length with sign bit", []uint32{1, 0x80000000, 0, 5}},
		{"bad loop flag", []uint32{1, 1, 2, 7}},
		{"trailing words", []uint32{1, 1, 0, 7, 8}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			seqs, err := Decode(tt.buf)
			require.ErrorIs(t, err, mesh.ErrFormat)
			assert.Nil(t, seqs)
		})
	}
}

func TestDecode_CopiesIndices(t *testing.T) {
	buf := []uint32{1, 2, 0, 4, 5}
	seqs, err := Decode(buf)
	require.NoError(t, err)

	buf[3] = 99
	assert.Equal(t, []uint32{4, 5}, seqs[0].Indices, "decoded sequences must not alias the input buffer")
}

func TestEncode_Layout(t *testing.T) {
	buf := Encode([]Sequence{
		{Indices: []uint32{5, 6, 7}, IsLoop: true},
		{Indices: []uint32{9, 10}},
	})
	assert.Equal(t, []uint32{2, 3, 1, 5, 6, 7, 2, 0, 9, 10}, buf)
	assert.Equal(t, []uint32{0}, Encode(nil))
}

func TestEncodeDecode_RoundTrip(t *testing.T) {
	roundTrip := func(chains [][]uint32, loops []bool) bool {
		seqs := make([]Sequence, len(chains))
		for i, c := range chains {
			seqs[i].Indices = append([]uint32{}, c...)
			seqs[i].IsLoop = i < len(loops) && loops[i]
		}

		got, err := Decode(Encode(seqs))
		if err != nil || len(got) != len(seqs) {
			return false
		}
		for i := range seqs {
			if got[i].IsLoop != seqs[i].IsLoop || len(got[i].Indices) != len(seqs[i].Indices) {
				return false
			}
			for j := range seqs[i].Indices {
				if got[i].Indices[j] != seqs[i].Indices[j] {
					return false
				}
			}
		}
		return true
	}
	require.NoError(t, quick.Check(roundTrip, nil))
}

func TestCheckBounds(t *testing.T) {
	seqs := []Sequence{{Indices: []uint32{0, 1, 2}}, {Indices: []uint32{3, 4}}}

	assert.NoError(t, CheckBounds(seqs, 5))
	assert.ErrorIs(t, CheckBounds(seqs, 4), mesh.ErrBounds)
	assert.NoError(t, CheckBounds(nil, 0))
}
