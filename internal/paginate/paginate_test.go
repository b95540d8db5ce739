package paginate

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRequestBounds(t *testing.T) {
	r := Request{Page: 2, Size: 3}
	require.Equal(t, int64(3), r.Skip())
	require.Equal(t, int64(6), r.Limit())
	require.Equal(t, int64(3), r.Count())

	first := Request{Page: 1, Size: 10}
	require.Equal(t, int64(0), first.Skip())
	require.Equal(t, int64(10), first.Limit())
}

func TestValidate(t *testing.T) {
	require.NoError(t, Request{Page: 1, Size: 1}.Validate())
	require.ErrorIs(t, Request{Page: 0, Size: 1}.Validate(), ErrInvalidRequest)
	require.ErrorIs(t, Request{Page: 1, Size: 0}.Validate(), ErrInvalidRequest)
	require.ErrorIs(t, Request{Page: -3, Size: 5}.Validate(), ErrInvalidRequest)
}

func TestValidate_Overflow(t *testing.T) {
	require.ErrorIs(t, Request{Page: 1 << 62, Size: 4}.Validate(), ErrOutOfRange)
	require.ErrorIs(t, Request{Page: math.MaxInt64, Size: 2}.Validate(), ErrOutOfRange)

	edge := Request{Page: math.MaxInt64 / 4, Size: 4}
	require.NoError(t, edge.Validate())
	require.Positive(t, edge.Skip())
	require.Positive(t, edge.Limit())
	require.NoError(t, Request{Page: math.MaxInt64, Size: 1}.Validate())
}

func TestSlice(t *testing.T) {
	items := []int{0, 1, 2, 3, 4, 5, 6}

	tests := []struct {
		name string
		req  Request
		want []int
	}{
		{"second page of three", Request{Page: 2, Size: 3}, []int{3, 4, 5}},
		{"last partial page", Request{Page: 3, Size: 3}, []int{6}},
		{"past the end", Request{Page: 4, Size: 3}, nil},
		{"everything", Request{Page: 1, Size: 100}, items},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, Slice(items, tt.req))
		})
	}
}

func TestPage(t *testing.T) {
	p := New([]string{"a"}, Request{Page: 3, Size: 1}, 7)
	require.False(t, p.Empty())
	require.Equal(t, int64(7), p.Total)
	require.Equal(t, int64(3), p.Page)

	empty := New[string](nil, Request{Page: 9, Size: 1}, 7)
	require.True(t, empty.Empty())
	require.Equal(t, int64(7), empty.Total)
}
