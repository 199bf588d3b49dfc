package scoring

import "regexp"

// equivalences groups spellings of one skill. Two terms in the same group are
// an exact match for each other.
var equivalences = [][]string{
	{"ml", "machine learning", "machine-learning"},
	{"ai", "artificial intelligence"},
	{"llm", "llms", "large language model", "large language models"},
	{"nlp", "natural language processing"},
	{"cv", "computer vision"},
	{"dl", "deep learning"},
	{"python", "python3", "py"},
	{"tf", "tensorflow"},
	{"pytorch", "torch"},
}

type relationship struct {
	base    string
	related []string
}

// relationships grant partial credit: a profile skill containing base earns
// half credit toward any requirement listed in related. Ordered for determinism.
var relationships = []relationship{
	{base: "machine learning", related: []string{"ml", "deep learning", "neural networks", "model"}},
	{base: "python", related: []string{"python3", "py", "scikit-learn", "tensorflow", "pytorch"}},
	{base: "deep learning", related: []string{"neural networks", "pytorch", "tensorflow", "keras"}},
	{base: "large language models", related: []string{"llm", "llms", "fine tuning", "quantization"}},
	{base: "langchain", related: []string{"llm", "large language models"}},
	{base: "artificial intelligence", related: []string{"ai", "machine learning", "ml"}},
	{base: "computer vision", related: []string{"cv", "image processing"}},
}

// variations lists abbreviations and alternate spellings searched in job text.
var variations = map[string][]string{
	"machine learning":              {"ml", "machine-learning"},
	"artificial intelligence":       {"ai", "artificial-intelligence"},
	"natural language processing":   {"nlp", "natural-language-processing"},
	"computer vision":               {"cv"},
	"deep learning":                 {"dl", "deep-learning"},
	"large language model":          {"llm", "large-language-model"},
	"large language models":         {"llm", "llms", "large-language-models"},
	"python (programming language)": {"python"},
	"python":                        {"python3", "py"},
	"tensorflow":                    {"tf"},
	"pytorch":                       {"torch"},
	"scikit-learn":                  {"sklearn", "scikit learn"},
	"xgboost":                       {"xgb"},
}

// importantPhrases match high-value technical phrases in lower-cased job text.
var importantPhrases = []*regexp.Regexp{
	regexp.MustCompile(`\b(machine learning|deep learning|neural networks?)\b`),
	regexp.MustCompile(`\b(natural language processing|nlp)\b`),
	regexp.MustCompile(`\b(computer vision|cv)\b`),
	regexp.MustCompile(`\b(large language models?|llm|llms)\b`),
	regexp.MustCompile(`\b(data pipelines?|data engineering)\b`),
	regexp.MustCompile(`\b(model deployment|mlops|ml ops)\b`),
	regexp.MustCompile(`\b(a/?b testing|experimentation)\b`),
	regexp.MustCompile(`\b(tensorflow|pytorch|scikit-learn|keras|xgboost)\b`),
	regexp.MustCompile(`\b(docker|kubernetes|containerization)\b`),
	regexp.MustCompile(`\b(aws|azure|gcp|cloud)\b`),
	regexp.MustCompile(`\b(rest api|api development|microservices)\b`),
	regexp.MustCompile(`\b(ci/?cd|continuous integration)\b`),
	regexp.MustCompile(`\b(fine[- ]?tuning|quantization|optimization)\b`),
	regexp.MustCompile(`\b(evaluation metrics|model evaluation)\b`),
	regexp.MustCompile(`\b(statistics|probability|statistical)\b`),
}

// requirementStopWords are dropped from keyword requirements when scoring.
var requirementStopWords = set(
	"experience", "work", "strong", "good", "years", "team",
	"project", "develop", "building", "data", "code", "software",
	"design", "quality", "practices", "familiarity", "proficiency",
)

// missingStopWords are never reported as missing skills.
var missingStopWords = set(
	"experience", "work", "working", "strong", "good", "knowledge",
	"understanding", "ability", "skills", "years",
	"team", "project", "projects", "develop", "building", "using",
	"data", "code", "software", "system", "systems", "design",
	"development", "build", "create", "make", "use",
	"contribute", "deliver", "end", "quality", "practices",
	"familiarity", "proficiency", "clean", "tested", "robust",
)

// techMarkers flag short keywords that still look technical.
var techMarkers = []string{
	"py", "js", "ml", "ai", "api", "sql", "framework", "learn",
	"model", "neural", "cloud", "deploy", "test", "metric",
}

// foundationSkills earn the ML foundation bonus when held verbatim.
var foundationSkills = []string{
	"machine learning", "python (programming language)", "python",
	"artificial intelligence (ai)", "deep learning",
}

var (
	entryLevelTerms = []string{"junior", "entry", "graduate", "1+ year", "1 year"}
	seniorTerms     = []string{"3+", "5+", "senior"}
)

// englishStopWords are removed before keyword ranking. The list matches the
// common English stop list used by scikit-learn.
var englishStopWords = set(
	"a", "about", "above", "across", "after", "afterwards", "again", "against", "all", "almost",
	"alone", "along", "already", "also", "although", "always", "am", "among", "amongst", "amoungst",
	"amount", "an", "and", "another", "any", "anyhow", "anyone", "anything", "anyway", "anywhere",
	"are", "around", "as", "at", "back", "be", "became", "because", "become", "becomes", "becoming",
	"been", "before", "beforehand", "behind", "being", "below", "beside", "besides", "between",
	"beyond", "bill", "both", "bottom", "but", "by", "call", "can", "cannot", "cant", "co", "con",
	"could", "couldnt", "cry", "de", "describe", "detail", "do", "done", "down", "due", "during",
	"each", "eg", "eight", "either", "eleven", "else", "elsewhere", "empty", "enough", "etc", "even",
	"ever", "every", "everyone", "everything", "everywhere", "except", "few", "fifteen", "fifty",
	"fill", "find", "fire", "first", "five", "for", "former", "formerly", "forty", "found", "four",
	"from", "front", "full", "further", "get", "give", "go", "had", "has", "hasnt", "have", "he",
	"hence", "her", "here", "hereafter", "hereby", "herein", "hereupon", "hers", "herself", "him",
	"himself", "his", "how", "however", "hundred", "i", "ie", "if", "in", "inc", "indeed", "interest",
	"into", "is", "it", "its", "itself", "keep", "last", "latter", "latterly", "least", "less", "ltd",
	"made", "many", "may", "me", "meanwhile", "might", "mill", "mine", "more", "moreover", "most",
	"mostly", "move", "much", "must", "my", "myself", "name", "namely", "neither", "never",
	"nevertheless", "next", "nine", "no", "nobody", "none", "noone", "nor", "not", "nothing", "now",
	"nowhere", "of", "off", "often", "on", "once", "one", "only", "onto", "or", "other", "others",
	"otherwise", "our", "ours", "ourselves", "out", "over", "own", "part", "per", "perhaps", "please",
	"put", "rather", "re", "same", "see", "seem", "seemed", "seeming", "seems", "serious", "several",
	"she", "should", "show", "side", "since", "sincere", "six", "sixty", "so", "some", "somehow",
	"someone", "something", "sometime", "sometimes", "somewhere", "still", "such", "system", "take",
	"ten", "than", "that", "the", "their", "them", "themselves", "then", "thence", "there",
	"thereafter", "thereby", "therefore", "therein", "thereupon", "these", "they", "thick", "thin",
	"third", "this", "those", "though", "three", "through", "throughout", "thru", "thus", "to",
	"together", "too", "top", "toward", "towards", "twelve", "twenty", "two", "un", "under", "until",
	"up", "upon", "us", "very", "via", "was", "we", "well", "were", "what", "whatever", "when",
	"whence", "whenever", "where", "whereafter", "whereas", "whereby", "wherein", "whereupon",
	"wherever", "whether", "which", "while", "whither", "who", "whoever", "whole", "whom", "whose",
	"why", "will", "with", "within", "without", "would", "yet", "you", "your", "yours", "yourself",
	"yourselves",
)

func set(values ...string) map[string]struct{} {
	m := make(map[string]struct{}, len(values))
	for _, v := range values {
		m[v] = struct{}{}
	}
	return m
}
