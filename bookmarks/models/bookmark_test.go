package models

import (
	"testing"

	"github.com/stretchr/testify/require"

	bkerrors "github.com/linkmark/api/bookmarks/errors"
)

func TestCreateRequestValidate(t *testing.T) {
	tests := []struct {
		name    string
		req     CreateRequest
		wantErr bool
	}{
		{"valid", CreateRequest{Title: "Docs", URL: "https://example.com"}, false},
		{"missing title", CreateRequest{URL: "https://example.com"}, true},
		{"whitespace title", CreateRequest{Title: "   ", URL: "https://example.com"}, true},
		{"missing url", CreateRequest{Title: "Docs"}, true},
		{"whitespace url", CreateRequest{Title: "Docs", URL: "\t"}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.req.Validate()
			if tt.wantErr {
				require.ErrorIs(t, err, bkerrors.ErrValidation)
				return
			}
			require.NoError(t, err)
		})
	}
}

func TestUpdateRequestValidate(t *testing.T) {
	title := "Docs"
	empty := "  "
	pinned := true

	require.ErrorIs(t, (&UpdateRequest{}).Validate(), bkerrors.ErrValidation)
	require.ErrorIs(t, (&UpdateRequest{Title: &empty}).Validate(), bkerrors.ErrValidation)
	require.NoError(t, (&UpdateRequest{Title: &title}).Validate())
	require.NoError(t, (&UpdateRequest{IsQuickAccess: &pinned}).Validate())
}
