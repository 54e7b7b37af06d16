package generator

// DefaultPool is the stock practice vocabulary. Duplicates are kept so the
// more common words come up a little more often.
var DefaultPool = []string{
	"the", "quick", "brown", "fox", "jumps", "over", "lazy", "dog", "time", "waits", "for", "no", "one",
	"and", "moves", "on", "gentle", "rain", "fell", "softly", "ground", "garden", "full", "fragrant",
	"blooming", "flowers", "child", "laughed", "bright", "sunshine", "they", "traveled", "together",
	"down", "winding", "road", "innovation", "drives", "progress", "remarkable", "ways", "coffee",
	"warmed", "her", "hands", "cold", "morning", "ancient", "tree", "stood", "tall", "silent", "train",
	"left", "station", "right", "on", "students", "studied", "quietly", "under", "library", "roof",
	"river", "cut", "silver", "line", "through", "valley", "music", "filled", "room", "joyful", "noise",
	"she", "wrote", "letter", "friend", "distant", "lighthouse", "guided", "ships", "safely", "home",
	"market", "buzzing", "colors", "voices", "they", "planted", "seeds", "watered", "them", "daily",
	"artist", "painted", "scenes", "everyday", "life", "new", "technology", "changes", "people", "connect",
	"he", "promised", "return", "next", "sunrise", "ocean", "covers", "more", "than", "seventy", "percent",
	"planet", "surface", "vital", "role", "regulating", "climate", "supporting", "biodiversity",
	"providing", "livelihoods", "millions", "people", "beneath", "surface", "lies", "world", "wonder",
}
