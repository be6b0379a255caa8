// Package voice holds the static voice catalogs advertised by each backend.
package voice

// Voice is a selectable synthetic voice.
type Voice struct {
	ID          string `json:"id"          doc:"Voice identifier passed as the voice parameter"`
	Description string `json:"description" doc:"Human readable description"`
}

// Popular groups the advertised voices.
type Popular struct {
	Female []Voice `json:"female"`
	Male   []Voice `json:"male"`
}

// Catalog is the list of voices a backend advertises.
type Catalog struct {
	Popular Popular `json:"popular"`
	Default string  `json:"default" doc:"Voice used when none is given"`
}

// Contains reports whether id is one of the advertised voices.
func (c Catalog) Contains(id string) bool {
	for _, group := range [][]Voice{c.Popular.Female, c.Popular.Male} {
		for _, v := range group {
			if v.ID == id {
				return true
			}
		}
	}
	return false
}

// WithDefault returns a copy of the catalog with a different default voice.
// An empty id keeps the current default.
func (c Catalog) WithDefault(id string) Catalog {
	if id == "" {
		return c
	}
	c.Popular.Female = append([]Voice(nil), c.Popular.Female...)
	c.Popular.Male = append([]Voice(nil), c.Popular.Male...)
	c.Default = id
	return c
}

// Edge lists Microsoft neural voices served by edge-tts.
var Edge = Catalog{
	Popular: Popular{
		Female: []Voice{
			{ID: "en-US-AriaNeural", Description: "News/Novel, positive and confident"},
			{ID: "en-US-AvaNeural", Description: "Conversational, friendly"},
			{ID: "en-US-JennyNeural", Description: "General purpose"},
			{ID: "en-GB-SoniaNeural", Description: "British accent"},
		},
		Male: []Voice{
			{ID: "en-US-AndrewNeural", Description: "Warm and confident"},
			{ID: "en-US-ChristopherNeural", Description: "News/Novel, authoritative"},
			{ID: "en-US-GuyNeural", Description: "General purpose"},
			{ID: "en-GB-RyanNeural", Description: "British accent"},
		},
	},
	Default: "en-US-AriaNeural",
}

// Polly lists Amazon Polly neural voices.
var Polly = Catalog{
	Popular: Popular{
		Female: []Voice{
			{ID: "Joanna", Description: "US English, clear and neutral"},
			{ID: "Ruth", Description: "US English, expressive long-form"},
			{ID: "Amy", Description: "British accent"},
			{ID: "Olivia", Description: "Australian accent"},
		},
		Male: []Voice{
			{ID: "Matthew", Description: "US English, warm"},
			{ID: "Stephen", Description: "US English, newscaster"},
			{ID: "Brian", Description: "British accent"},
			{ID: "Kajal", Description: "Indian English"},
		},
	},
	Default: "Joanna",
}
