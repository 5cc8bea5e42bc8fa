package roles

// embedColorBase is the accent color shared by all role assignment embeds.
const embedColorBase = 0x206694

// Category is one role assignment embed: its title, optional decoration,
// and the guild emoji whose reactions drive role changes.
type Category struct {
	Title       string
	Description string
	Thumbnail   string
	Emoji       []string
}

// Catalog is the static emoji-to-role table, injected into bootstrap rather
// than read from package state. Role resolution is by fuzzy name match, so
// the catalog carries emoji names only; the roles they map to are located in
// each guild's live role list.
type Catalog struct {
	Color      int
	Categories []Category
}

// RequiredEmoji returns every emoji name the catalog references, in order,
// without duplicates. Bootstrap fails fast if any of these is missing from
// a guild.
func (c Catalog) RequiredEmoji() []string {
	seen := make(map[string]struct{})
	var names []string
	for _, cat := range c.Categories {
		for _, name := range cat.Emoji {
			if _, ok := seen[name]; ok {
				continue
			}
			seen[name] = struct{}{}
			names = append(names, name)
		}
	}
	return names
}

// DefaultCatalog returns the role assignment table for The Expanse servers:
// book, novella and show spoiler roles, the "current" catch-up roles, and an
// introductory embed explaining the system.
func DefaultCatalog() Catalog {
	return Catalog{
		Color: embedColorBase,
		Categories: []Category{
			{
				Title:     "The Expanse: Book Role Assignment",
				Thumbnail: "https://i.imgur.com/iGZGW7u.png",
				Emoji: []string{
					"leviathanwakes",
					"calibanswar",
					"abaddonsgate",
					"cibolaburn",
					"nemesisgames",
					"babylonsashes",
					"persepolisrising",
					"tiamatswrath",
				},
			},
			{
				Title:     "The Expanse: Novella Role Assignment",
				Thumbnail: "https://i.imgur.com/vuiekLb.png",
				Emoji: []string{
					"thebutcherofandersonstation",
					"godsofrisk",
					"drive",
					"thechurn",
					"thevitalabyss",
					"strangedogs",
					"auberon",
				},
			},
			{
				Title:     "The Expanse: Show Role Assignment",
				Thumbnail: "https://i.imgur.com/kXIe12S.png",
				Emoji: []string{
					"season1",
					"season2",
					"season3",
					"season4",
				},
			},
			{
				Title: "The Expanse: All Current Assignment",
				Emoji: []string{
					"currentshow",
					"currentbook",
					"currentall",
				},
			},
			{
				Title: "The Expanse: Reaction-based Role Assignment",
				Description: "This server has a spoiler system in place.  You only see channels for " +
					"which you have opted into, by assigning particular roles.\n\n" +
					"Opt-in to channels by reacting to the different category messages below.\n\n" +
					"In order to remove an unwanted role, just remove your reaction by clicking the emoji once again.",
			},
		},
	}
}
