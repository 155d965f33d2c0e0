package launcher

import (
	"fmt"
	"math/rand"
)

var nameAdjectives = []string{
	"amber", "brisk", "calm", "dusty", "eager", "fuzzy", "green",
	"humble", "idle", "jolly", "keen", "lucid", "mellow", "nimble",
	"quiet", "rusty", "swift", "tidy", "vivid", "witty",
}

var nameNouns = []string{
	"anvil", "badger", "comet", "dune", "ember", "falcon", "grove",
	"harbor", "inlet", "jackal", "kettle", "lagoon", "mesa", "nebula",
	"otter", "prairie", "quarry", "ridge", "summit", "tundra",
}

// GenerateName picks an unused adjective-noun alias. taken reports
// whether a candidate is already in use; after a bounded number of
// collisions a numeric suffix guarantees progress.
func GenerateName(taken func(string) bool) string {
	for i := 0; i < 20; i++ {
		name := fmt.Sprintf("%s-%s",
			nameAdjectives[rand.Intn(len(nameAdjectives))],
			nameNouns[rand.Intn(len(nameNouns))])
		if !taken(name) {
			return name
		}
	}
	base := fmt.Sprintf("%s-%s",
		nameAdjectives[rand.Intn(len(nameAdjectives))],
		nameNouns[rand.Intn(len(nameNouns))])
	for n := 2; ; n++ {
		name := fmt.Sprintf("%s-%d", base, n)
		if !taken(name) {
			return name
		}
	}
}
