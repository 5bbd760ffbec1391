package cloudinary

import (
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
)

func TestBuildPublicIDIsUniqueAndSanitised(t *testing.T) {
	first := BuildPublicID("คำสั่ง 12/2567.pdf")
	second := BuildPublicID("คำสั่ง 12/2567.pdf")

	require.NotEqual(t, first, second)
	require.NotContains(t, first, "/")
	require.NotContains(t, first, " ")
	require.True(t, strings.HasPrefix(BuildPublicID("memo report.docx"), "memo-report-"))
}

func TestNewRequiresCredentials(t *testing.T) {
	_, err := New(Config{CloudName: "demo"}, zerolog.Nop())
	require.Error(t, err)
}
