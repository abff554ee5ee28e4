package actions

import (
	"context"
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/glabrego/pokedex-cli/internal/app"
	"github.com/glabrego/pokedex-cli/internal/catalog"
)

const (
	listTimeout     = 20 * time.Second
	detailTimeout   = 15 * time.Second
	batchTimeout    = 60 * time.Second
	sequenceTimeout = 20 * time.Second
	publishTimeout  = 5 * time.Second
)

type Service interface {
	ListReferences(ctx context.Context, limit int) ([]catalog.Reference, error)
	GetDetail(ctx context.Context, idOrName string) (catalog.Detail, error)
	ListCategories(ctx context.Context) ([]string, error)
	FetchDetails(ctx context.Context, keys []string) catalog.BatchResult
	StageSequence(names []string) uint64
	PersistSequence(ctx context.Context, version uint64) error
	ResolveSequence(ctx context.Context) ([]string, app.SequenceSource, error)
}

// Every load message carries the Mount it was issued for so that results
// arriving after the view was left can be dropped.

type ListLoadSuccessMsg struct {
	Mount    int
	Refs     []catalog.Reference
	Duration time.Duration
}

type ListLoadErrorMsg struct {
	Mount int
	Err   error
}

type CategoriesLoadSuccessMsg struct {
	Mount  int
	Labels []string
}

type CategoriesLoadErrorMsg struct {
	Mount int
	Err   error
}

type GalleryBatchMsg struct {
	Mount   int
	Next    int
	Details []catalog.Detail
	Failed  []string
}

type DetailLoadSuccessMsg struct {
	Mount  int
	Key    string
	Detail catalog.Detail
}

type DetailLoadErrorMsg struct {
	Mount int
	Key   string
	Err   error
}

type SequenceResolvedMsg struct {
	Mount    int
	Sequence []string
	Source   app.SequenceSource
}

type SequenceErrorMsg struct {
	Mount int
	Err   error
}

type PublishErrorMsg struct {
	Err error
}

type OpenURLSuccessMsg struct {
	Status string
}

type OpenURLErrorMsg struct {
	Err error
}

type ImagePreviewSuccessMsg struct {
	Key     string
	Preview string
}

type ImagePreviewErrorMsg struct {
	Key string
	Err error
}

func LoadListCmd(service Service, limit, mount int) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), listTimeout)
		defer cancel()
		start := time.Now()

		refs, err := service.ListReferences(ctx, limit)
		if err != nil {
			return ListLoadErrorMsg{Mount: mount, Err: err}
		}
		return ListLoadSuccessMsg{Mount: mount, Refs: refs, Duration: time.Since(start)}
	}
}

func LoadCategoriesCmd(service Service, mount int) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), detailTimeout)
		defer cancel()

		labels, err := service.ListCategories(ctx)
		if err != nil {
			return CategoriesLoadErrorMsg{Mount: mount, Err: err}
		}
		return CategoriesLoadSuccessMsg{Mount: mount, Labels: labels}
	}
}

// LoadGalleryBatchCmd fetches one chunk of gallery details. Next is the index
// of the first key not covered by this chunk.
func LoadGalleryBatchCmd(service Service, keys []string, next, mount int) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), batchTimeout)
		defer cancel()

		res := service.FetchDetails(ctx, keys)
		return GalleryBatchMsg{Mount: mount, Next: next, Details: res.Details, Failed: res.Failed}
	}
}

func LoadDetailCmd(service Service, key string, mount int) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), detailTimeout)
		defer cancel()

		d, err := service.GetDetail(ctx, key)
		if err != nil {
			return DetailLoadErrorMsg{Mount: mount, Key: key, Err: err}
		}
		return DetailLoadSuccessMsg{Mount: mount, Key: key, Detail: d}
	}
}

func ResolveSequenceCmd(service Service, mount int) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), sequenceTimeout)
		defer cancel()

		seq, source, err := service.ResolveSequence(ctx)
		if err != nil {
			return SequenceErrorMsg{Mount: mount, Err: err}
		}
		return SequenceResolvedMsg{Mount: mount, Sequence: seq, Source: source}
	}
}

// PublishSequenceCmd stages names as the visible sequence before it returns,
// so a detail mount issued in the same Update already resolves them. The
// returned command only persists that version. Success produces no message.
func PublishSequenceCmd(service Service, names []string) tea.Cmd {
	version := service.StageSequence(names)
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), publishTimeout)
		defer cancel()

		if err := service.PersistSequence(ctx, version); err != nil {
			return PublishErrorMsg{Err: err}
		}
		return nil
	}
}

func ImagePreviewCmd(key, imageURL string, width int, renderFn func(string, int) (string, error)) tea.Cmd {
	return func() tea.Msg {
		if renderFn == nil {
			return ImagePreviewErrorMsg{Key: key, Err: fmt.Errorf("image preview renderer unavailable")}
		}
		preview, err := renderFn(imageURL, width)
		if err != nil {
			return ImagePreviewErrorMsg{Key: key, Err: err}
		}
		return ImagePreviewSuccessMsg{Key: key, Preview: preview}
	}
}

func OpenURLCmd(url string, openFn, copyFn func(string) error) tea.Cmd {
	return func() tea.Msg {
		if openFn != nil {
			if err := openFn(url); err == nil {
				return OpenURLSuccessMsg{Status: "Opened artwork in browser"}
			}
		}
		if copyFn != nil {
			if err := copyFn(url); err == nil {
				return OpenURLSuccessMsg{Status: "Could not open browser, URL copied to clipboard"}
			}
		}
		return OpenURLErrorMsg{Err: fmt.Errorf("could not open URL or copy to clipboard")}
	}
}

func CopyURLCmd(url string, copyFn func(string) error) tea.Cmd {
	return func() tea.Msg {
		if copyFn != nil {
			if err := copyFn(url); err == nil {
				return OpenURLSuccessMsg{Status: "URL copied to clipboard"}
			}
		}
		return OpenURLErrorMsg{Err: fmt.Errorf("could not copy URL to clipboard")}
	}
}
