package taxonomy

import (
	"context"
	"fmt"
	"strings"
	"sync/atomic"
	"time"

	"github.com/spf13/viper"

	"conversational-recommendation/pkg/log"
)

// Provider serves the current taxonomy snapshot.
type Provider interface {
	Current() *Taxonomy
}

// FileProvider loads the taxonomy from a YAML file and publishes it through
// an atomic pointer, so a refresh never disturbs in-flight extraction.
type FileProvider struct {
	l               log.Logger
	path            string
	defaultLanguage string

	v       *viper.Viper
	current atomic.Pointer[Taxonomy]
}

var _ Provider = (*FileProvider)(nil)

// NewFileProvider reads the file once and fails when it is unreadable or
// structurally invalid. Reload failures after that keep the previous
// snapshot live instead of failing.
func NewFileProvider(l log.Logger, path, defaultLanguage string) (*FileProvider, error) {
	p := &FileProvider{
		l:               l,
		path:            path,
		defaultLanguage: defaultLanguage,
		v:               viper.New(),
	}
	p.v.SetConfigFile(path)

	tax, err := p.read()
	if err != nil {
		return nil, err
	}
	p.current.Store(tax)

	return p, nil
}

func (p *FileProvider) read() (*Taxonomy, error) {
	if err := p.v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read taxonomy file %s: %w", p.path, err)
	}

	tax := &Taxonomy{}
	if err := p.v.Unmarshal(tax); err != nil {
		return nil, fmt.Errorf("failed to decode taxonomy file %s: %w", p.path, err)
	}
	tax.finalize(p.defaultLanguage)

	if problems := tax.Validate(); len(problems) > 0 {
		return nil, fmt.Errorf("taxonomy file %s is invalid: %s", p.path, strings.Join(problems, "; "))
	}

	return tax, nil
}

// Current returns the live snapshot. Callers treat it as read-only and hold
// on to the same snapshot for the whole operation.
func (p *FileProvider) Current() *Taxonomy {
	return p.current.Load()
}

// Reload re-reads the file and swaps the snapshot in whole. On failure the
// previous snapshot stays live and the error is reported to the caller.
func (p *FileProvider) Reload(ctx context.Context) error {
	tax, err := p.read()
	if err != nil {
		p.l.Warnf(ctx, "taxonomy.Reload: keeping previous snapshot: %v", err)
		return err
	}

	prev := p.current.Swap(tax)
	if prev != nil && prev.Version != tax.Version {
		p.l.Infof(ctx, "taxonomy.Reload: version %q -> %q, %d categories", prev.Version, tax.Version, len(tax.Categories))
	}

	return nil
}

// StartPeriodicReload refreshes the snapshot every interval until ctx is
// cancelled. interval <= 0 disables the loop.
func (p *FileProvider) StartPeriodicReload(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		return
	}

	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				_ = p.Reload(ctx)
			}
		}
	}()
}
