package notifier

import (
	"context"
	"fmt"
	"io"

	"github.com/julianstephens/habitual/internal/models"
)

// Console writes notifications to w. It backs `notify --print` and acts as
// the fallback when the tray is not running.
type Console struct {
	w io.Writer
}

var _ Sender = (*Console)(nil)

func NewConsole(w io.Writer) *Console {
	return &Console{w: w}
}

func (c *Console) Send(_ context.Context, payload models.Payload) error {
	_, err := fmt.Fprintf(c.w, "🔔 %s: %s\n", payload.Title, payload.Body)
	return err
}

// Fallback tries primary and, when it fails, secondary.
func Fallback(primary, secondary Sender) Sender {
	return SenderFunc(func(ctx context.Context, payload models.Payload) error {
		if err := primary.Send(ctx, payload); err != nil {
			if serr := secondary.Send(ctx, payload); serr != nil {
				return fmt.Errorf("%w (fallback: %v)", err, serr)
			}
		}
		return nil
	})
}
