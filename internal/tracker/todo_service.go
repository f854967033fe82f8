// Package tracker provides the file-backed operations behind the convtodo
// commands.
package tracker

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"maps"
	"slices"
	"sync"

	"github.com/colonyops/convtodo/internal/core/logging"
	"github.com/colonyops/convtodo/internal/core/todo"
	"github.com/colonyops/convtodo/internal/core/validate"
	"github.com/hay-kot/criterio"
	"github.com/rs/zerolog"
)

// TodoService owns one todo file. Every mutation loads the file, applies a
// single change and saves it back atomically.
type TodoService struct {
	path     string
	doneInfo string
	log      zerolog.Logger
	mu       sync.Mutex
}

// NewTodoService creates a TodoService for the todo file at path. doneInfo is
// the info message MarkDone records when the caller gives none. Loggers built
// with logging.Component pick up the guid and file of each operation.
func NewTodoService(path, doneInfo string, log zerolog.Logger) *TodoService {
	if doneInfo == "" {
		doneInfo = todo.DefaultDoneInfo
	}
	return &TodoService{
		path:     path,
		doneInfo: doneInfo,
		log:      log,
	}
}

// Path returns the todo file the service operates on.
func (s *TodoService) Path() string {
	return s.path
}

// Load reads the todo file. A missing file is an *todo.IOError.
func (s *TodoService) Load(ctx context.Context) (*todo.List, error) {
	return todo.LoadFromFile(s.path)
}

// loadOrEmpty reads the todo file, treating a missing file as an empty list.
func (s *TodoService) loadOrEmpty(ctx context.Context) (*todo.List, error) {
	l, err := todo.LoadFromFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		s.log.Debug().Ctx(s.logCtx(ctx)).Msg("todo file does not exist, starting empty")
		return todo.NewList(), nil
	}
	return l, err
}

// List returns the items matching q, sorted by GUID unless fuzzy ranking
// applies. A missing file yields no items.
func (s *TodoService) List(ctx context.Context, q todo.Query) ([]todo.Entry, error) {
	l, err := s.loadOrEmpty(ctx)
	if err != nil {
		return nil, err
	}
	return l.Search(q)
}

// Summary counts items per status. A missing file yields an empty summary.
func (s *TodoService) Summary(ctx context.Context) (map[string]int, error) {
	l, err := s.loadOrEmpty(ctx)
	if err != nil {
		return nil, err
	}
	return l.Summary(), nil
}

// Get returns a copy of the item stored under guid.
func (s *TodoService) Get(ctx context.Context, guid string) (*todo.Item, error) {
	l, err := s.Load(ctx)
	if err != nil {
		return nil, err
	}

	item, ok := l.Get(guid)
	if !ok {
		return nil, &todo.NotFoundError{GUID: guid}
	}
	return item.Clone(), nil
}

// Create builds a new item and stores it under guid. Without force an
// existing GUID is rejected with todo.ErrDuplicate; with force it is replaced.
func (s *TodoService) Create(ctx context.Context, guid, kind string, fields map[string]string, force bool) (*todo.Item, error) {
	if err := criterio.ValidateStruct(validate.GUIDField("guid", guid)); err != nil {
		return nil, err
	}
	for key := range fields {
		if err := validate.FieldKey(key); err != nil {
			return nil, err
		}
	}

	item, err := todo.NewItem(kind, fields)
	if err != nil {
		return nil, err
	}

	err = s.mutate(ctx, true, func(l *todo.List) error {
		if force {
			l.Insert(guid, item)
			return nil
		}
		if err := l.Add(guid, item); err != nil {
			return fmt.Errorf("todo item %q: %w", guid, err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.log.Info().Ctx(s.logCtx(ctx, guid)).Str("kind", kind).Msg("todo item created")
	return item.Clone(), nil
}

// ImportItem is one item of an import batch.
type ImportItem struct {
	GUID   string            `json:"guid"`
	Kind   string            `json:"kind"`
	Fields map[string]string `json:"fields"`
}

// ImportBatch is the JSON document accepted by Import.
type ImportBatch struct {
	Items []ImportItem `json:"items"`
}

// Validate checks the batch for errors using criterio. Every item is checked
// so all problems are reported together.
func (b ImportBatch) Validate() error {
	if len(b.Items) == 0 {
		return criterio.NewFieldErrors("items", fmt.Errorf("array is empty"))
	}

	var errs criterio.FieldErrorsBuilder
	seen := make(map[string]bool, len(b.Items))

	for i, it := range b.Items {
		field := fmt.Sprintf("items[%d]", i)

		if err := validate.GUID(it.GUID); err != nil {
			errs = errs.Append(field+".guid", err)
		} else if seen[it.GUID] {
			errs = errs.Append(field+".guid", fmt.Errorf("duplicate guid %q", it.GUID))
		}
		seen[it.GUID] = true

		for key := range it.Fields {
			if err := validate.FieldKey(key); err != nil {
				errs = errs.Append(field+".fields", err)
			}
		}

		if _, err := todo.NewItem(it.Kind, it.Fields); err != nil {
			errs = errs.Append(field, err)
		}
	}

	return errs.ToError()
}

// Import validates the whole batch and then stores every item with a single
// save. Without force, GUIDs already in the file fail the import and nothing
// is written.
func (s *TodoService) Import(ctx context.Context, batch ImportBatch, force bool) (int, error) {
	if err := criterio.ValidateStruct(batch.Validate()); err != nil {
		return 0, err
	}

	err := s.mutate(ctx, true, func(l *todo.List) error {
		if !force {
			var errs criterio.FieldErrorsBuilder
			for i, it := range batch.Items {
				if l.Contains(it.GUID) {
					errs = errs.Append(fmt.Sprintf("items[%d].guid", i), fmt.Errorf("todo item %q: %w", it.GUID, todo.ErrDuplicate))
				}
			}
			if err := criterio.ValidateStruct(errs.ToError()); err != nil {
				return err
			}
		}

		for _, it := range batch.Items {
			item, err := todo.NewItem(it.Kind, it.Fields)
			if err != nil {
				return err
			}
			l.Insert(it.GUID, item)
		}
		return nil
	})
	if err != nil {
		return 0, err
	}

	s.log.Info().Ctx(s.logCtx(ctx)).Int("count", len(batch.Items)).Msg("todo items imported")
	return len(batch.Items), nil
}

// UpdateStatus sets status and info on an existing item.
func (s *TodoService) UpdateStatus(ctx context.Context, guid, status, info string) error {
	if status == "" {
		return fmt.Errorf("status cannot be empty")
	}

	err := s.mutate(ctx, false, func(l *todo.List) error {
		return l.UpdateStatus(guid, status, info)
	})
	if err != nil {
		return err
	}

	s.log.Info().Ctx(s.logCtx(ctx, guid)).Str("status", status).Msg("todo status updated")
	return nil
}

// MarkDone sets the item to Done. An empty info records the configured
// done message.
func (s *TodoService) MarkDone(ctx context.Context, guid, info string) error {
	if info == "" {
		info = s.doneInfo
	}
	return s.UpdateStatus(ctx, guid, todo.StatusDone, info)
}

// MarkFailed sets the item to Failed with info as the explanation.
func (s *TodoService) MarkFailed(ctx context.Context, guid, info string) error {
	return s.UpdateStatus(ctx, guid, todo.StatusFailed, info)
}

// Reopen sets the item back to Open. The info message is kept so the reason
// for the previous status stays visible.
func (s *TodoService) Reopen(ctx context.Context, guid string) error {
	err := s.mutate(ctx, false, func(l *todo.List) error {
		item, ok := l.Get(guid)
		if !ok {
			return &todo.NotFoundError{GUID: guid}
		}
		item.Reopen()
		return nil
	})
	if err != nil {
		return err
	}

	s.log.Info().Ctx(s.logCtx(ctx, guid)).Str("status", todo.StatusOpen).Msg("todo status updated")
	return nil
}

// SetInfo replaces the info message without touching the status.
func (s *TodoService) SetInfo(ctx context.Context, guid, msg string) error {
	err := s.mutate(ctx, false, func(l *todo.List) error {
		item, ok := l.Get(guid)
		if !ok {
			return &todo.NotFoundError{GUID: guid}
		}
		item.SetInfo(msg)
		return nil
	})
	if err != nil {
		return err
	}

	s.log.Info().Ctx(s.logCtx(ctx, guid)).Msg("todo info updated")
	return nil
}

// SetField writes key on an existing item. The change is rejected when it
// would leave the item without a required field.
func (s *TodoService) SetField(ctx context.Context, guid, key, value string) error {
	return s.SetFields(ctx, guid, map[string]string{key: value})
}

// SetFields writes every key in fields on an existing item with a single save.
// Either all fields are applied or none are.
func (s *TodoService) SetFields(ctx context.Context, guid string, fields map[string]string) error {
	keys := slices.Sorted(maps.Keys(fields))
	for _, key := range keys {
		if err := validate.FieldKey(key); err != nil {
			return err
		}
	}

	err := s.mutate(ctx, false, func(l *todo.List) error {
		item, ok := l.Get(guid)
		if !ok {
			return &todo.NotFoundError{GUID: guid}
		}

		updated := item.Clone()
		for _, key := range keys {
			if err := updated.Set(key, fields[key]); err != nil {
				return err
			}
		}
		if err := updated.Validate(); err != nil {
			var verr *todo.ValidationError
			if errors.As(err, &verr) {
				verr.GUID = guid
			}
			return err
		}

		l.Insert(guid, updated)
		return nil
	})
	if err != nil {
		return err
	}

	s.log.Info().Ctx(s.logCtx(ctx, guid)).Strs("fields", keys).Msg("todo fields updated")
	return nil
}

// Remove deletes the item stored under guid.
func (s *TodoService) Remove(ctx context.Context, guid string) error {
	err := s.mutate(ctx, false, func(l *todo.List) error {
		return l.Remove(guid)
	})
	if err != nil {
		return err
	}

	s.log.Info().Ctx(s.logCtx(ctx, guid)).Msg("todo item removed")
	return nil
}

// Export writes the todo document to w. A missing file exports an empty
// document.
func (s *TodoService) Export(ctx context.Context, w io.Writer) error {
	l, err := s.loadOrEmpty(ctx)
	if err != nil {
		return err
	}
	return l.Encode(w)
}

// mutate loads the list, applies fn and saves the result. When allowMissing
// is set a missing file starts from an empty list. Nothing is written if fn
// fails.
func (s *TodoService) mutate(ctx context.Context, allowMissing bool, fn func(l *todo.List) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	var (
		l   *todo.List
		err error
	)
	if allowMissing {
		l, err = s.loadOrEmpty(ctx)
	} else {
		l, err = s.Load(ctx)
	}
	if err != nil {
		return err
	}

	if err := fn(l); err != nil {
		return err
	}

	if err := l.SaveToFile(s.path); err != nil {
		s.log.Error().Ctx(s.logCtx(ctx)).Err(err).Msg("save todo file")
		return err
	}
	return nil
}

// logCtx decorates ctx with the todo file and, when given, the item GUID so the
// context hook adds them to log events.
func (s *TodoService) logCtx(ctx context.Context, guid ...string) context.Context {
	ctx = logging.WithFile(ctx, s.path)
	if len(guid) > 0 {
		ctx = logging.WithGUID(ctx, guid[0])
	}
	return ctx
}
