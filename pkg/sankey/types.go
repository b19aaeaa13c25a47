package sankey

// Serialization field names match the existing d3 diagram consumer: node
// identifiers live in "name", display labels in "real_name", and roster text
// in "team". Changing them breaks downstream rendering.

// RosterSeparator joins player names inside roster and shared-roster strings.
const RosterSeparator = "\n"

// StructuralWeight is the fixed value of grid links. Small enough to stay
// visually thin, non-zero so the lattice renders connected.
const StructuralWeight = 0.5

// Node is one visual slot in one year's column of the diagram.
type Node struct {
	// DisplayKey is the composite identifier: "<year>_<team>" for real teams,
	// "<year>_placeholder_<n>" for placeholders. Unique across the diagram.
	DisplayKey string `json:"name" bson:"name"`

	// Label is the team name, or a synthesized placeholder label numbered
	// within its year.
	Label string `json:"real_name" bson:"real_name"`

	// Roster is the player names joined by RosterSeparator. Empty for
	// placeholders; emptiness doubles as the placeholder test.
	Roster string `json:"team" bson:"team"`

	// Year is the owning year label.
	Year string `json:"year" bson:"year"`

	// Index is the dense 0-based identifier, assigned in creation order.
	// Links reference nodes by Index.
	Index int `json:"node" bson:"node"`

	// Color is Index mod maxTeamsPerYear, used purely for color cycling.
	Color int `json:"color" bson:"color"`
}

// IsPlaceholder reports whether the node pads the grid rather than
// representing a real team.
func (n *Node) IsPlaceholder() bool { return n.Roster == "" }

// Link is a directed edge between nodes of temporally adjacent years.
// Source is always the chronologically earlier node.
type Link struct {
	Source int `json:"source" bson:"source"`
	Target int `json:"target" bson:"target"`

	// Value is the shared-player count for real links, StructuralWeight for
	// grid links.
	Value float64 `json:"value" bson:"value"`

	// Roster lists the shared players joined by RosterSeparator, sorted
	// lexicographically for deterministic output. Empty for grid links.
	Roster string `json:"team" bson:"team"`
}

// IsStructural reports whether the link only preserves grid connectivity.
func (l *Link) IsStructural() bool { return l.Roster == "" }

// Diagram is the complete sankey document.
type Diagram struct {
	Nodes []Node `json:"nodes" bson:"nodes"`
	Links []Link `json:"links" bson:"links"`

	// MaxTeams is the largest real-team count across all years; every year's
	// column is padded to exactly this many nodes.
	MaxTeams int `json:"max_teams" bson:"max_teams"`
}

// NodeCount returns the total number of nodes.
func (d *Diagram) NodeCount() int { return len(d.Nodes) }

// LinkCount returns the total number of links, real and structural.
func (d *Diagram) LinkCount() int { return len(d.Links) }

// RealLinks returns only the data-derived links.
func (d *Diagram) RealLinks() []Link {
	out := make([]Link, 0, len(d.Links))
	for _, l := range d.Links {
		if !l.IsStructural() {
			out = append(out, l)
		}
	}
	return out
}
