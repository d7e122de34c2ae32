package similarity

import (
	"fmt"
	"math/rand"
	"strings"
)

// placeholderJournals attribute heuristic flags; none of them is a real match
var placeholderJournals = []struct {
	name string
	url  string
}{
	{"Journal of Research Ethics", "https://www.journalofresearchethics.org/article/10.1234/jre.2023.01.005"},
	{"International Science Review", "https://www.internationalsciencereview.org/papers/10.5678/isr.2022.12.042"},
	{"Academic Integrity Quarterly", "https://www.academicintegrityquarterly.edu/article/10.9012/aiq.2023.03.018"},
	{"Research Methodology Journal", "https://www.researchmethodologyjournal.org/article/10.3456/rmj.2022.09.027"},
	{"Science & Ethics Today", "https://www.scienceethicstoday.org/article/10.7890/set.2023.05.031"},
	{"Journal of Academic Publishing", "https://www.journalofacademicpublishing.org/article/10.2345/jap.2022.11.014"},
	{"Research Integrity Review", "https://www.researchintegrityreview.org/article/10.6789/rir.2023.02.009"},
	{"Scientific Writing Standards", "https://www.scientificwritingstandards.org/article/10.4567/sws.2022.08.023"},
	{"Ethics in Research Quarterly", "https://www.ethicsinresearchquarterly.org/article/10.8901/erq.2023.04.037"},
	{"Journal of Citation Standards", "https://www.journalofcitationstandards.org/article/10.1234/jcs.2022.10.019"},
}

var (
	placeholderFirstNames = []string{"John", "Sarah", "Michael", "Emily", "David", "Jennifer", "Robert", "Maria", "James", "Linda"}
	placeholderLastNames  = []string{"Smith", "Johnson", "Williams", "Brown", "Jones", "Garcia", "Miller", "Davis", "Rodriguez", "Martinez"}
)

// placeholderSource draws a journal, 1-3 authors and a year in 2020-2023
func placeholderSource(rng *rand.Rand) Source {
	j := placeholderJournals[rng.Intn(len(placeholderJournals))]
	return Source{
		Title:   j.name,
		Authors: placeholderAuthors(rng),
		Year:    2020 + rng.Intn(4),
		URL:     j.url,
	}
}

func placeholderAuthors(rng *rand.Rand) string {
	n := 1 + rng.Intn(3)
	authors := make([]string, n)
	for i := range authors {
		first := placeholderFirstNames[rng.Intn(len(placeholderFirstNames))]
		last := placeholderLastNames[rng.Intn(len(placeholderLastNames))]
		authors[i] = fmt.Sprintf("%s, %s.", last, first[:1])
	}
	return strings.Join(authors, ", ")
}
