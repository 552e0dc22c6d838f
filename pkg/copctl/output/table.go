package output

import (
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	"github.com/mossrock/copilot-chat/pkg/chat"
)

// AuthStatus is the renderable summary of the credential state.
type AuthStatus struct {
	Authenticated bool      `json:"authenticated" yaml:"authenticated"`
	StorageMode   string    `json:"storageMode" yaml:"storage-mode"`
	TokenDir      string    `json:"tokenDir" yaml:"token-dir"`
	HasAPIKey     bool      `json:"hasApiKey" yaml:"has-api-key"`
	KeyExpiresAt  time.Time `json:"keyExpiresAt,omitempty" yaml:"key-expires-at,omitempty"`
}

func WriteStatusTable(w io.Writer, status AuthStatus) {
	tw := tabwriter.NewWriter(w, 2, 4, 2, ' ', 0)
	_, _ = fmt.Fprintln(tw, "AUTHENTICATED\tSTORAGE\tTOKEN_DIR\tKEY_EXPIRES")
	_, _ = fmt.Fprintf(tw, "%t\t%s\t%s\t%s\n", status.Authenticated, status.StorageMode, status.TokenDir, formatTime(status.KeyExpiresAt))
	_ = tw.Flush()
}

func WriteModelTable(w io.Writer, models []chat.Model) {
	tw := tabwriter.NewWriter(w, 2, 4, 2, ' ', 0)
	_, _ = fmt.Fprintln(tw, "MODEL\tAPI_MODEL")
	for _, m := range models {
		_, _ = fmt.Fprintf(tw, "%s\t%s\n", m.ID, m.APIModel)
	}
	_ = tw.Flush()
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	return t.Format(time.RFC3339)
}
