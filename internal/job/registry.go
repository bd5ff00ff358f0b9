package job

import (
	"context"
	"errors"
	"sync"
	"time"
)

var (
	// ErrNotFound は指定IDのジョブが存在しない
	ErrNotFound = errors.New("job not found")
	// ErrUnknownID は Update 時に対象が無いことを示す（ErrNotFound と同じ）
	ErrUnknownID = ErrNotFound
	// ErrDuplicateID は同じIDのジョブが既に登録されている
	ErrDuplicateID = errors.New("duplicate job id")
)

type entry struct {
	progress   Progress
	cancel     context.CancelFunc // nil でなければ実行中（キャンセル可能）
	createdAt  time.Time
	finishedAt time.Time
}

// Registry はジョブIDと進捗状態の対応を管理する
type Registry struct {
	mu      sync.RWMutex
	entries map[string]*entry
	now     func() time.Time
}

// NewRegistry は新しい Registry を作成する
func NewRegistry() *Registry {
	return &Registry{
		entries: make(map[string]*entry),
		now:     time.Now,
	}
}

// Register は starting 状態の進捗を登録する
func (r *Registry) Register(id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.entries[id]; exists {
		return ErrDuplicateID
	}
	r.entries[id] = &entry{
		progress:  newProgress(),
		createdAt: r.now(),
	}
	return nil
}

// Update は進捗に変更を適用する
// 変更は書き込みロック内で行われ、読み手が途中の状態を見ることはない
func (r *Registry) Update(id string, mutate func(*Progress)) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	e, ok := r.entries[id]
	if !ok {
		return ErrUnknownID
	}
	mutate(&e.progress)
	r.markFinished(e)
	return nil
}

// Get は進捗のコピーを返す
func (r *Registry) Get(id string) (Progress, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	e, ok := r.entries[id]
	if !ok {
		return Progress{}, ErrNotFound
	}
	return e.progress, nil
}

// MarkActive はジョブを実行中（キャンセル可能）にする
func (r *Registry) MarkActive(id string, cancel context.CancelFunc) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	e, ok := r.entries[id]
	if !ok {
		return ErrUnknownID
	}
	e.cancel = cancel
	return nil
}

// ClearActive は実行中マーカーを外す
func (r *Registry) ClearActive(id string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if e, ok := r.entries[id]; ok {
		e.cancel = nil
	}
}

// IsActive はジョブが実行中かどうかを返す
func (r *Registry) IsActive(id string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()

	e, ok := r.entries[id]
	return ok && e.cancel != nil
}

// Cancel は実行中のジョブをキャンセルする
// 実行中のジョブが無い（終了済み・未登録）場合は false を返す
func (r *Registry) Cancel(id string) bool {
	return r.cancelWith(id, CancelMessage)
}

func (r *Registry) cancelWith(id, msg string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	e, ok := r.entries[id]
	if !ok || e.cancel == nil || e.progress.Status.IsTerminal() {
		return false
	}

	e.cancel()
	e.cancel = nil
	e.progress.Fail(msg)
	r.markFinished(e)
	return true
}

// ActiveIDs は実行中のジョブIDを返す
func (r *Registry) ActiveIDs() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	ids := make([]string, 0)
	for id, e := range r.entries {
		if e.cancel != nil {
			ids = append(ids, id)
		}
	}
	return ids
}

// Len は登録されているジョブ数を返す
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.entries)
}

func (r *Registry) markFinished(e *entry) {
	if e.progress.Status.IsTerminal() && e.finishedAt.IsZero() {
		e.finishedAt = r.now()
	}
}
