package places

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/charmbracelet/log"
	"github.com/hashicorp/go-cleanhttp"
)

const defaultBootstrapURL = "https://maps.googleapis.com/maps/api/js"

// Loader makes the maps capability available before any query runs.
// Loaded reports whether a previous Load succeeded; Load is expected to be
// cheap to call again once the flag is set.
type Loader interface {
	Loaded() bool
	Load(ctx context.Context) error
}

// BootstrapLoader fetches the maps bootstrap endpoint once and remembers
// the outcome. Only a successful load sets the flag; failures leave it unset
// so a caller may try again explicitly.
//
// The flag is the only guard: two callers racing on the first load will both
// issue a bootstrap request. That matches the capability's own semantics,
// where redundant loads are harmless and only the flag check short-circuits.
type BootstrapLoader struct {
	httpClient *http.Client
	url        string
	key        string
	libraries  []string
	language   string
	loaded     atomic.Bool
}

// LoaderOption customizes a BootstrapLoader.
type LoaderOption func(*BootstrapLoader)

// WithLoaderHTTPClient replaces the default HTTP client.
func WithLoaderHTTPClient(hc *http.Client) LoaderOption {
	return func(l *BootstrapLoader) { l.httpClient = hc }
}

// WithBootstrapURL overrides the bootstrap endpoint, mainly for tests.
func WithBootstrapURL(u string) LoaderOption {
	return func(l *BootstrapLoader) { l.url = u }
}

// WithLibraries sets the capability sub-libraries to enable (default "places").
func WithLibraries(libs []string) LoaderOption {
	return func(l *BootstrapLoader) {
		if len(libs) > 0 {
			l.libraries = libs
		}
	}
}

// WithLoaderLanguage sets the display language (default "en").
func WithLoaderLanguage(lang string) LoaderOption {
	return func(l *BootstrapLoader) {
		if lang != "" {
			l.language = lang
		}
	}
}

// NewBootstrapLoader creates a loader for the given API key.
func NewBootstrapLoader(key string, opts ...LoaderOption) *BootstrapLoader {
	l := &BootstrapLoader{
		httpClient: cleanhttp.DefaultClient(),
		url:        defaultBootstrapURL,
		key:        key,
		libraries:  []string{"places"},
		language:   defaultLanguage,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Loaded reports whether the capability finished loading.
func (l *BootstrapLoader) Loaded() bool {
	return l.loaded.Load()
}

// Load fetches the bootstrap endpoint with the key, enabled libraries and
// language. It returns immediately when the loaded flag is already set.
func (l *BootstrapLoader) Load(ctx context.Context) error {
	if l.loaded.Load() {
		return nil
	}

	params := url.Values{}
	params.Set("key", l.key)
	params.Set("libraries", strings.Join(l.libraries, ","))
	params.Set("language", l.language)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, l.url+"?"+params.Encode(), nil)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrLoadFailed, err)
	}

	resp, err := l.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrLoadFailed, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("%w: bootstrap returned HTTP %d", ErrLoadFailed, resp.StatusCode)
	}

	l.loaded.Store(true)
	log.Debugf("maps capability loaded, libraries=[%s]", strings.Join(l.libraries, ","))
	return nil
}

// Process-wide shared loader. The first caller's key and options stick;
// later calls get the same instance regardless of arguments, mirroring a
// capability that can only be loaded once per process.
var (
	sharedMu sync.Mutex
	shared   *BootstrapLoader
)

// SharedLoader returns the process-wide loader, creating it on first use.
// Sessions that need isolated load state should build their own
// BootstrapLoader instead.
func SharedLoader(key string, opts ...LoaderOption) *BootstrapLoader {
	sharedMu.Lock()
	defer sharedMu.Unlock()

	if shared == nil {
		shared = NewBootstrapLoader(key, opts...)
	}
	return shared
}
