package steam

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestAppIDFromArg(t *testing.T) {
	tests := []struct {
		name    string
		in      string
		want    string
		wantErr bool
	}{
		{name: "bare id", in: "440", want: "440"},
		{name: "id with spaces", in: "  440  ", want: "440"},
		{name: "store url", in: "https://store.steampowered.com/app/440/Team_Fortress_2/", want: "440"},
		{name: "community url", in: "https://steamcommunity.com/app/570/workshop/", want: "570"},
		{name: "not numeric", in: "tf2", wantErr: true},
		{name: "empty", in: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := AppIDFromArg(tt.in)
			if tt.wantErr {
				if !errors.Is(err, ErrInvalidApp) {
					t.Fatalf("got %v, want ErrInvalidApp", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("app id mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestHasWorkshop(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
		want   bool
	}{
		{
			name: "empty workshop notice",
			body: `<html><body><div class="noItemsNotice">There are no items</div></body></html>`,
			want: false,
		},
		{
			name: "workshop in hub header",
			body: `<html><body><div class="apphub_HeaderTop"><a>Workshop</a></div></body></html>`,
			want: true,
		},
		{
			name: "browse header present",
			body: `<html><body><div class="workshopBrowseHeader">Browse</div></body></html>`,
			want: true,
		},
		{
			name: "plain page without workshop markers",
			body: `<html><body><div class="apphub_HeaderTop"><a>Discussions</a></div></body></html>`,
			want: false,
		},
		{
			name:   "missing hub",
			status: http.StatusNotFound,
			want:   false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mock := &mockHTTPClient{status: tt.status, body: tt.body}
			c := New(mock, "test-key")

			got, err := c.HasWorkshop(context.Background(), "440")
			if err != nil {
				t.Fatalf("HasWorkshop: %v", err)
			}
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("result mismatch (-want +got):\n%s", diff)
			}
		})
	}
}
