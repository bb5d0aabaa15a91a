package inventory

import (
	"context"
	"math"
	"strconv"
	"strings"
	"sync"

	"github.com/hitoshi/sustainabite/internal/model"
)

// Updater は在庫の更新先。データサービスが満たす。
type Updater interface {
	UpdateInventoryItem(ctx context.Context, update model.InventoryUpdate) (model.UpdateResult, error)
}

// Pending は編集中のアイテムと入力値。
type Pending struct {
	ItemID       int64
	Name         string
	CurrentStock float64
	MinLevel     float64
}

// Editor は同時に1アイテムだけを編集する編集セッション。
type Editor struct {
	mu      sync.Mutex
	userID  string
	pending *Pending
}

// NewEditor はユーザーの在庫を編集するEditorを生成する。
func NewEditor(userID string) *Editor {
	return &Editor{userID: userID}
}

// Begin はアイテムの編集を開始する。既存の編集中アイテムは破棄される。
func (e *Editor) Begin(item model.InventoryItem) Pending {
	e.mu.Lock()
	defer e.mu.Unlock()

	p := Pending{
		ItemID:       item.ID,
		Name:         item.Name,
		CurrentStock: item.CurrentStock,
		MinLevel:     item.MinLevel,
	}
	e.pending = &p
	return p
}

// Focus は編集中のアイテムを返す。編集中でなければfalse。
func (e *Editor) Focus() (Pending, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.pending == nil {
		return Pending{}, false
	}
	return *e.pending, true
}

// Cancel は編集中の入力を破棄する。
func (e *Editor) Cancel() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.pending = nil
}

// Save は入力値を検証して更新先に保存する。
// 数値でない値や負数は更新先を呼ばずに検証エラーを返し、編集状態を維持する。
// 保存に成功した場合は編集状態を解除し、保存した値を返す。
func (e *Editor) Save(ctx context.Context, updater Updater, rawCurrent, rawMin string) (model.InventoryUpdate, error) {
	focus, ok := e.Focus()
	if !ok {
		return model.InventoryUpdate{}, model.NewNoEditInProgressError()
	}

	current, min, err := ParseLevels(rawCurrent, rawMin)
	if err != nil {
		return model.InventoryUpdate{}, err
	}

	update := model.InventoryUpdate{
		ID:           focus.ItemID,
		UserID:       e.userID,
		CurrentStock: current,
		MinLevel:     min,
	}

	result, err := updater.UpdateInventoryItem(ctx, update)
	if err != nil {
		return model.InventoryUpdate{}, err
	}
	if !result.Success {
		return model.InventoryUpdate{}, model.NewInventoryUpdateFailedError()
	}

	e.mu.Lock()
	// 保存中に別アイテムの編集が始まっていればそちらを維持する
	if e.pending != nil && e.pending.ItemID == focus.ItemID {
		e.pending = nil
	}
	e.mu.Unlock()

	return update, nil
}

// ParseLevels は在庫数と最低在庫数の入力文字列を検証する。
// 両方が数値であることを先に確認し、その後に負数を拒否する。
func ParseLevels(rawCurrent, rawMin string) (float64, float64, error) {
	current, okCurrent := parseNumber(rawCurrent)
	min, okMin := parseNumber(rawMin)
	if !okCurrent || !okMin {
		return 0, 0, model.NewInvalidNumberError()
	}
	if current < 0 || min < 0 {
		return 0, 0, model.NewNegativeNumberError()
	}
	return current, min, nil
}

func parseNumber(raw string) (float64, bool) {
	v, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false
	}
	return v, true
}
