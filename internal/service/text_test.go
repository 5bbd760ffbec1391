package service

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCleanText(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{in: "  Budget circular  ", want: "Budget circular"},
		{in: "<b>Budget</b> circular", want: "Budget circular"},
		{in: "Allocations<script>alert(1)</script>", want: "Allocations"},
		{in: "R&D unit, fiscal year 2567", want: "R&D unit, fiscal year 2567"},
		{in: `<a href="javascript:x()">Province</a> office`, want: "Province office"},
		{in: "<p></p>", want: ""},
		{in: "หนังสือเวียน", want: "หนังสือเวียน"},
	}
	for _, tc := range cases {
		require.Equal(t, tc.want, cleanText(tc.in), tc.in)
	}
}
