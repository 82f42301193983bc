package state

import (
	"encoding/json"
	"testing"

	"github.com/google/uuid"
	"github.com/jwebster45206/quest-helper/pkg/items"
	"github.com/jwebster45206/quest-helper/pkg/quests/tribaltotem"
	"github.com/jwebster45206/quest-helper/pkg/world"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewSession(t *testing.T) {
	s := NewSession(tribaltotem.ID)

	assert.NotEqual(t, uuid.Nil, s.ID)
	assert.Equal(t, tribaltotem.ID, s.QuestID)
	assert.Equal(t, 0, s.Stage)
	assert.NotNil(t, s.Inventory)

	_, ok := s.Position()
	assert.False(t, ok)
}

func TestSession_SetStage(t *testing.T) {
	q := tribaltotem.New(items.Default())
	s := NewSession(q.ID)

	require.NoError(t, s.SetStage(q, 8))
	assert.Equal(t, 8, s.Stage)

	err := s.SetStage(q, 9)
	assert.ErrorIs(t, err, ErrInvalidStage)
	assert.Equal(t, 8, s.Stage, "stage should not change on error")

	assert.ErrorIs(t, s.SetStage(q, -1), ErrInvalidStage)

	other := NewSession("cooks_assistant")
	assert.Error(t, other.SetStage(q, 1))
}

func TestSession_CurrentStep(t *testing.T) {
	q := tribaltotem.New(items.Default())
	s := NewSession(q.ID)
	require.NoError(t, s.SetStage(q, 1))

	step, err := s.CurrentStep(q)
	require.NoError(t, err)
	assert.Equal(t, tribaltotem.StepInvestigateCrate, step.Key)

	s.Apply(&PlayerDelta{Add: map[items.ID]int{items.AddressLabel: 1}})
	step, err = s.CurrentStep(q)
	require.NoError(t, err)
	assert.Equal(t, tribaltotem.StepUseLabel, step.Key)

	s.Apply(&PlayerDelta{Remove: map[items.ID]int{items.AddressLabel: 1}})
	step, err = s.CurrentStep(q)
	require.NoError(t, err)
	assert.Equal(t, tribaltotem.StepInvestigateCrate, step.Key)
}

func TestSession_Apply(t *testing.T) {
	dialogText := "Please enter the password."
	empty := ""

	tests := []struct {
		name          string
		start         *Session
		delta         *PlayerDelta
		wantInventory map[items.ID]int
		wantLocation  *world.Point
		wantDialog    string
	}{
		{
			name:          "nil delta",
			start:         &Session{Inventory: map[items.ID]int{items.Coins: 5}},
			delta:         nil,
			wantInventory: map[items.ID]int{items.Coins: 5},
		},
		{
			name:          "snapshot replaces inventory and drops empty stacks",
			start:         &Session{Inventory: map[items.ID]int{items.Coins: 5}},
			delta:         &PlayerDelta{Inventory: map[items.ID]int{items.AddressLabel: 1, items.Coins: 0}},
			wantInventory: map[items.ID]int{items.AddressLabel: 1},
		},
		{
			name:          "empty snapshot clears inventory",
			start:         &Session{Inventory: map[items.ID]int{items.Coins: 5}},
			delta:         &PlayerDelta{Inventory: map[items.ID]int{}},
			wantInventory: map[items.ID]int{},
		},
		{
			name:          "add to nil inventory",
			start:         &Session{},
			delta:         &PlayerDelta{Add: map[items.ID]int{items.Coins: 90}},
			wantInventory: map[items.ID]int{items.Coins: 90},
		},
		{
			name:          "remove floors at zero",
			start:         &Session{Inventory: map[items.ID]int{items.Coins: 5}},
			delta:         &PlayerDelta{Remove: map[items.ID]int{items.Coins: 10}},
			wantInventory: map[items.ID]int{},
		},
		{
			name:          "negative counts are ignored",
			start:         &Session{Inventory: map[items.ID]int{items.Coins: 5}},
			delta:         &PlayerDelta{Add: map[items.ID]int{items.Coins: -50}, Remove: map[items.ID]int{items.AddressLabel: -1}},
			wantInventory: map[items.ID]int{items.Coins: 5},
		},
		{
			name:          "location and dialog",
			start:         &Session{Inventory: map[items.ID]int{}},
			delta:         &PlayerDelta{Location: world.At(2650, 3273, 0), Dialog: &dialogText},
			wantInventory: map[items.ID]int{},
			wantLocation:  world.At(2650, 3273, 0),
			wantDialog:    dialogText,
		},
		{
			name:          "clear location and close dialog",
			start:         &Session{Inventory: map[items.ID]int{}, Location: world.At(1, 1, 0), Dialog: dialogText},
			delta:         &PlayerDelta{ClearLocation: true, Dialog: &empty},
			wantInventory: map[items.ID]int{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.start.Apply(tt.delta)
			assert.Equal(t, tt.wantInventory, tt.start.Inventory)
			assert.Equal(t, tt.wantLocation, tt.start.Location)
			assert.Equal(t, tt.wantDialog, tt.start.Dialog)
		})
	}
}

func TestSession_NegativeRemoveDoesNotGrantLabel(t *testing.T) {
	q := tribaltotem.New(items.Default())
	s := NewSession(q.ID)
	require.NoError(t, s.SetStage(q, 1))

	s.Apply(&PlayerDelta{Remove: map[items.ID]int{items.AddressLabel: -1}})
	assert.Equal(t, 0, s.ItemQuantity(items.AddressLabel))

	step, err := s.CurrentStep(q)
	require.NoError(t, err)
	assert.Equal(t, tribaltotem.StepInvestigateCrate, step.Key)
}

func TestPlayerDelta_Check(t *testing.T) {
	tests := []struct {
		name    string
		delta   *PlayerDelta
		wantErr bool
	}{
		{name: "nil", delta: nil},
		{name: "positive counts", delta: &PlayerDelta{Add: map[items.ID]int{items.Coins: 90}, Remove: map[items.ID]int{items.Coins: 1}}},
		{name: "zero in snapshot", delta: &PlayerDelta{Inventory: map[items.ID]int{items.Coins: 0}}},
		{name: "negative add", delta: &PlayerDelta{Add: map[items.ID]int{items.Coins: -50}}, wantErr: true},
		{name: "negative remove", delta: &PlayerDelta{Remove: map[items.ID]int{items.AddressLabel: -1}}, wantErr: true},
		{name: "negative snapshot", delta: &PlayerDelta{Inventory: map[items.ID]int{items.Coins: -1}}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.delta.Check()
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrNegativeQuantity)
				return
			}
			assert.NoError(t, err)
		})
	}
}

func TestPlayerDelta_IsEmpty(t *testing.T) {
	var nilDelta *PlayerDelta
	assert.True(t, nilDelta.IsEmpty())
	assert.True(t, (&PlayerDelta{}).IsEmpty())
	assert.False(t, (&PlayerDelta{Inventory: map[items.ID]int{}}).IsEmpty())
	assert.False(t, (&PlayerDelta{ClearLocation: true}).IsEmpty())
}

func TestSession_JSONInventoryKeys(t *testing.T) {
	s := NewSession(tribaltotem.ID)
	s.Inventory[items.AddressLabel] = 1

	data, err := json.Marshal(s)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"inventory":{"1858":1}`)

	var loaded Session
	require.NoError(t, json.Unmarshal(data, &loaded))
	assert.Equal(t, 1, loaded.ItemQuantity(items.AddressLabel))
}
