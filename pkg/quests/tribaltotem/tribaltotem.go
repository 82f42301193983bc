// Package tribaltotem is the walkthrough for the Tribal Totem quest: recover
// Kangai Mau's totem from Lord Handelmort's house in Ardougne.
package tribaltotem

import (
	"github.com/jwebster45206/quest-helper/pkg/conditionals"
	"github.com/jwebster45206/quest-helper/pkg/items"
	"github.com/jwebster45206/quest-helper/pkg/quest"
	"github.com/jwebster45206/quest-helper/pkg/world"
)

const (
	ID   = "tribal_totem"
	Name = "Tribal Totem"
)

// NPC and object ids.
const (
	NPCKangaiMau         = 846
	NPCGPDTEmployee      = 844
	NPCWizardCromperty   = 2887
	ObjectCrateNorthEast = 2707
	ObjectCrateSouth     = 2708
)

// Step keys.
const (
	StepTalkToKangaiMau      = "talk_to_kangai_mau"
	StepInvestigateCrate     = "investigate_crate"
	StepUseLabel             = "use_label"
	StepTalkToEmployee       = "talk_to_employee"
	StepTalkToCromperty      = "talk_to_cromperty"
	StepEnterPassword        = "enter_password"
	StepInvestigateStairs    = "investigate_stairs"
	StepClimbStairs          = "climb_stairs"
	StepSearchChest          = "search_chest"
	StepTalkToKangaiMauAgain = "talk_to_kangai_mau_again"
)

// Zone names.
const (
	ZoneArdougne  = "ardougne"
	ZoneBrimhaven = "brimhaven"
)

// builder holds the quest's requirements and steps while the stage table is
// assembled.
type builder struct {
	catalog *items.Catalog

	coins, amuletOfGlory, ardougneTeleports conditionals.Requirement
	addressLabel, addressLabelHighlighted   conditionals.Requirement
	hasLabel                                conditionals.When

	talkToKangaiMau, investigateCrate, useLabel, talkToEmployee, talkToCromperty     *quest.Step
	enterPassword, investigateStairs, climbStairs, searchChest, talkToKangaiMauAgain *quest.Step
}

// New builds the Tribal Totem quest. It panics if the catalog lacks a
// collection the quest needs.
func New(catalog *items.Catalog) *quest.Quest {
	b := &builder{catalog: catalog}
	b.setupItemRequirements()
	b.setupConditions()
	b.setupSteps()

	q := quest.New(ID, Name)
	b.loadZones(q)
	q.AddSteps(
		b.talkToKangaiMau, b.investigateCrate, b.useLabel, b.talkToEmployee, b.talkToCromperty,
		b.enterPassword, b.investigateStairs, b.climbStairs, b.searchChest, b.talkToKangaiMauAgain,
	)

	q.SetStage(0, quest.Plain(b.talkToKangaiMau.Key))

	useLabelOnCrate := quest.NewConditional(b.investigateCrate.Key)
	useLabelOnCrate.AddStep(b.hasLabel, b.useLabel.Key)
	q.SetStage(1, useLabelOnCrate.Entry())

	q.SetStage(2, quest.Plain(b.talkToEmployee.Key))
	q.SetStage(3, quest.Plain(b.talkToCromperty.Key))
	q.SetStage(4, quest.Plain(b.enterPassword.Key))
	q.SetStage(5, quest.Plain(b.investigateStairs.Key))
	q.SetStage(6, quest.Plain(b.climbStairs.Key))
	q.SetStage(7, quest.Plain(b.searchChest.Key))
	q.SetStage(8, quest.Plain(b.talkToKangaiMauAgain.Key))

	q.Recommended = []conditionals.Requirement{b.coins, b.amuletOfGlory, b.ardougneTeleports}
	q.Required = []conditionals.Requirement{}

	q.AddPanel(quest.NewPanel("Retrieving the totem",
		[]*quest.Step{
			b.talkToKangaiMau, b.investigateCrate, b.useLabel, b.talkToEmployee, b.talkToCromperty,
			b.enterPassword, b.investigateStairs, b.climbStairs, b.searchChest, b.talkToKangaiMauAgain,
		},
		b.coins, b.amuletOfGlory, b.ardougneTeleports,
	))

	return q
}

func (b *builder) setupItemRequirements() {
	b.coins = conditionals.NewItemRequirement("Coins", items.Coins, 90)
	b.amuletOfGlory = conditionals.NewCollectionRequirement("Amulet of glory", b.catalog, items.AmuletOfGlory)
	b.ardougneTeleports = conditionals.NewItemRequirement("Teleports to Ardougne", items.ArdougneTeleport, 1)
	b.addressLabel = conditionals.NewItemRequirement("Address label", items.AddressLabel, 1)
	b.addressLabelHighlighted = b.addressLabel.WithHighlight(true)
}

// The house interior has no surveyed coordinates yet, so only the two towns
// are declared.
func (b *builder) loadZones(q *quest.Quest) {
	q.Zones[ZoneArdougne] = world.NewZone(world.Point{X: 2640, Y: 3265}, world.Point{X: 2686, Y: 3248})
	q.Zones[ZoneBrimhaven] = world.NewZone(world.Point{X: 2744, Y: 3205}, world.Point{X: 2815, Y: 3153})
}

func (b *builder) setupConditions() {
	b.hasLabel = conditionals.HasItem(b.addressLabel)
}

func (b *builder) setupSteps() {
	b.talkToKangaiMau = quest.NewNPCStep(StepTalkToKangaiMau, quest.ID(NPCKangaiMau), world.At(2794, 3182, 0),
		"Talk to Kangai Mau in the Brimhaven food store.").
		AddDialog("I'm in search of adventure!", "Ok, I will get it back.")

	b.investigateCrate = quest.NewObjectStep(StepInvestigateCrate, quest.ID(ObjectCrateNorthEast), world.At(2650, 3273, 0),
		"Travel to the GPDT depot in Ardougne and investigate the most northeastern crate for the label.")
	b.useLabel = quest.NewObjectStep(StepUseLabel, quest.ID(ObjectCrateSouth), world.At(2650, 3271, 0),
		"Use the label on the crate located 2 tiles to the south of the first crate.", b.addressLabelHighlighted).
		AddIcon(items.AddressLabel)
	b.talkToEmployee = quest.NewNPCStep(StepTalkToEmployee, quest.ID(NPCGPDTEmployee), world.At(2647, 3272, 0),
		"Talk to a GPDT employee.").
		AddDialog("So, when are you going to deliver this crate?")

	b.talkToCromperty = quest.NewNPCStep(StepTalkToCromperty, quest.ID(NPCWizardCromperty), world.At(2683, 3326, 0),
		"Talk to Wizard Cromperty.").
		AddDialog("Chat.", "So what have you invented?", "Can I be teleported please?", "Yes, that sounds good. Teleport me!")

	// TODO: survey object ids and coordinates inside Handelmort's house for stages 4-8.
	b.enterPassword = quest.NewObjectStep(StepEnterPassword, nil, nil, "Go west 2 doors and enter the password KURT.")
	b.investigateStairs = quest.NewObjectStep(StepInvestigateStairs, nil, nil, "Right-click Investigate the stairs.").
		AddDialog("whatever the option is to remove")
	b.climbStairs = quest.NewObjectStep(StepClimbStairs, nil, nil, "Climb the stairs.")
	b.searchChest = quest.NewObjectStep(StepSearchChest, nil, nil, "Search the chest on the top floor for the totem.")
	b.talkToKangaiMauAgain = quest.NewNPCStep(StepTalkToKangaiMauAgain, quest.ID(NPCKangaiMau), nil, "Return to Kangai Mau.")
}
