package domain

// StateKind identifies a screen state of the target application.
type StateKind string

const (
	KindInitialization StateKind = "initialization"
	KindMapSelection   StateKind = "map_selection"
	KindCombat         StateKind = "combat"
	KindShop           StateKind = "shop"
	KindTavern         StateKind = "tavern"
	KindBlacksmith     StateKind = "blacksmith"
	KindChest          StateKind = "chest"
	KindFairyBlessing  StateKind = "fairy_blessing"
	KindDialogueReward StateKind = "dialogue_reward"
	KindSkill          StateKind = "skill"
	KindUpgrade        StateKind = "upgrade"
	KindUnknown        StateKind = "unknown"
)

// Status is a point-in-time view of a running session, used by the inspection surfaces.
type Status struct {
	RunID        string        `json:"run_id"`
	State        StateKind     `json:"state"`
	Ticks        uint64        `json:"ticks"`
	Faults       uint64        `json:"faults"`
	LastFault    string        `json:"last_fault,omitempty"`
	SelectedNode *SelectedNode `json:"selected_node,omitempty"`
	Display      Display       `json:"display"`
}
