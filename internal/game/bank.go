package game

import (
	"fmt"
	"hash/fnv"
	"math/rand"
	"strconv"
	"strings"
)

const (
	// BankSize is the number of questions generated per subject/grade/difficulty
	BankSize = 10

	// SessionMax caps how many questions a single challenge asks
	SessionMax = 10

	// GoldPerCorrect is the session gold earned per correct answer
	GoldPerCorrect = 10

	// HPPenalty is deducted for a wrong or timed-out answer
	HPPenalty = 10
)

// DifficultyReflection re-practices previously-missed questions instead of
// drawing from a generated bank
const DifficultyReflection = "reflection"

var (
	Subjects     = []string{"math", "chinese", "english"}
	Grades       = []string{"一上", "一下", "二上", "二下", "三上", "三下"}
	Difficulties = []string{"simple", "normal", "hard"}
)

// Question is immutable once generated. The ID is stable across
// regenerations so wrongQuestions entries recorded in earlier sessions stay
// resolvable; only the option order changes between generations.
type Question struct {
	ID         string   `json:"id"`
	Prompt     string   `json:"prompt"`
	Answer     string   `json:"answer"`
	Options    []string `json:"options"`
	Difficulty string   `json:"difficulty"`
}

// KnownSubject reports whether the subject is in the generator's subject set
func KnownSubject(subject string) bool {
	return contains(Subjects, subject)
}

// KnownGrade reports whether the grade is in the generator's grade set
func KnownGrade(grade string) bool {
	return contains(Grades, grade)
}

// KnownDifficulty reports whether the difficulty has a generated bank.
// Reflection is not a bank; it is resolved against the wrong-question log.
func KnownDifficulty(difficulty string) bool {
	return contains(Difficulties, difficulty)
}

// Bank generates the fixed question bank for a subject, grade and
// difficulty. Prompt and answer content is deterministic per question ID;
// the four options come back in a freshly randomized order each call.
func Bank(subject, grade, difficulty string) []Question {
	questions := make([]Question, 0, BankSize)
	for i := 0; i < BankSize; i++ {
		questions = append(questions, buildQuestion(subject, grade, difficulty, i))
	}
	return questions
}

// Find resolves a question ID back to its question, searching the banks the
// ID encodes. Used to rebuild the reflection pool from wrongQuestions.
func Find(id string) (Question, bool) {
	subject, grade, difficulty, index, ok := parseQuestionID(id)
	if !ok {
		return Question{}, false
	}
	return buildQuestion(subject, grade, difficulty, index), true
}

func buildQuestion(subject, grade, difficulty string, index int) Question {
	var prompt, answer string
	var distractors []string

	switch subject {
	case "chinese":
		prompt, answer, distractors = chineseQuestion(subject, grade, difficulty, index)
	case "english":
		prompt, answer, distractors = englishQuestion(subject, grade, difficulty, index)
	default:
		prompt, answer, distractors = mathQuestion(subject, grade, difficulty, index)
	}

	options := append([]string{answer}, distractors...)
	rand.Shuffle(len(options), func(i, j int) {
		options[i], options[j] = options[j], options[i]
	})

	return Question{
		ID:         fmt.Sprintf("%s_%s_%s_%d", subject, grade, difficulty, index),
		Prompt:     prompt,
		Answer:     answer,
		Options:    options,
		Difficulty: difficulty,
	}
}

func parseQuestionID(id string) (subject, grade, difficulty string, index int, ok bool) {
	parts := strings.Split(id, "_")
	if len(parts) != 4 {
		return "", "", "", 0, false
	}
	subject, grade, difficulty = parts[0], parts[1], parts[2]
	index, err := strconv.Atoi(parts[3])
	if err != nil || index < 0 || index >= BankSize {
		return "", "", "", 0, false
	}
	if !KnownSubject(subject) || !KnownGrade(grade) {
		return "", "", "", 0, false
	}
	if !KnownDifficulty(difficulty) {
		return "", "", "", 0, false
	}
	return subject, grade, difficulty, index, true
}

// questionSeed derives a stable per-question seed so regenerating a bank
// never changes its content
func questionSeed(subject, grade, difficulty string, index int) int64 {
	h := fnv.New64a()
	fmt.Fprintf(h, "%s|%s|%s|%d", subject, grade, difficulty, index)
	return int64(h.Sum64())
}

func gradeIndex(grade string) int {
	for i, g := range Grades {
		if g == grade {
			return i
		}
	}
	return 0
}

func mathQuestion(subject, grade, difficulty string, index int) (string, string, []string) {
	rng := rand.New(rand.NewSource(questionSeed(subject, grade, difficulty, index)))
	span := 10 * (gradeIndex(grade) + 1)

	var prompt string
	var value int
	switch difficulty {
	case "normal":
		a := rng.Intn(span) + span
		b := rng.Intn(span) + 1
		prompt = fmt.Sprintf("%d - %d = ?", a, b)
		value = a - b
	case "hard":
		a := rng.Intn(span/2+1) + 2
		b := rng.Intn(8) + 2
		prompt = fmt.Sprintf("%d × %d = ?", a, b)
		value = a * b
	default:
		a := rng.Intn(span) + 1
		b := rng.Intn(span) + 1
		prompt = fmt.Sprintf("%d + %d = ?", a, b)
		value = a + b
	}

	answer := strconv.Itoa(value)
	offsets := []int{1, -1, 2, -2, 10, -10, 3, -3}
	rng.Shuffle(len(offsets), func(i, j int) {
		offsets[i], offsets[j] = offsets[j], offsets[i]
	})

	distractors := make([]string, 0, 3)
	for _, off := range offsets {
		wrong := value + off
		if wrong < 0 || wrong == value {
			continue
		}
		distractors = append(distractors, strconv.Itoa(wrong))
		if len(distractors) == 3 {
			break
		}
	}
	// Offsets always yield at least three non-negative distinct values for
	// value >= 2, which every generated expression produces.
	return prompt, answer, distractors
}

type antonymPair struct {
	word     string
	opposite string
}

var antonyms = []antonymPair{
	{"大", "小"}, {"上", "下"}, {"左", "右"}, {"前", "後"},
	{"多", "少"}, {"高", "矮"}, {"長", "短"}, {"快", "慢"},
	{"冷", "熱"}, {"早", "晚"}, {"黑", "白"}, {"遠", "近"},
	{"胖", "瘦"}, {"哭", "笑"}, {"開", "關"}, {"新", "舊"},
	{"輕", "重"}, {"來", "去"},
}

func chineseQuestion(subject, grade, difficulty string, index int) (string, string, []string) {
	rng := rand.New(rand.NewSource(questionSeed(subject, grade, difficulty, 0)))
	// Stride through the table from a per-bank offset so a bank never
	// repeats a pair.
	offset := rng.Intn(len(antonyms))
	pair := antonyms[(offset+index)%len(antonyms)]

	prompt := fmt.Sprintf("「%s」的相反詞是什麼？", pair.word)

	perQuestion := rand.New(rand.NewSource(questionSeed(subject, grade, difficulty, index)))
	distractors := make([]string, 0, 3)
	for _, i := range perQuestion.Perm(len(antonyms)) {
		candidate := antonyms[i].opposite
		if candidate == pair.opposite || candidate == pair.word {
			continue
		}
		distractors = append(distractors, candidate)
		if len(distractors) == 3 {
			break
		}
	}
	return prompt, pair.opposite, distractors
}

type pluralPair struct {
	singular string
	plural   string
}

var plurals = []pluralPair{
	{"cat", "cats"}, {"box", "boxes"}, {"baby", "babies"}, {"foot", "feet"},
	{"mouse", "mice"}, {"child", "children"}, {"bus", "buses"}, {"leaf", "leaves"},
	{"tooth", "teeth"}, {"man", "men"}, {"city", "cities"}, {"knife", "knives"},
	{"wolf", "wolves"}, {"dog", "dogs"}, {"apple", "apples"}, {"watch", "watches"},
	{"fox", "foxes"}, {"story", "stories"},
}

func englishQuestion(subject, grade, difficulty string, index int) (string, string, []string) {
	rng := rand.New(rand.NewSource(questionSeed(subject, grade, difficulty, 0)))
	offset := rng.Intn(len(plurals))
	pair := plurals[(offset+index)%len(plurals)]

	prompt := fmt.Sprintf("What is the plural of \"%s\"?", pair.singular)

	// Wrong inflections of the same word read more plausibly than plurals
	// of unrelated words.
	candidates := []string{
		pair.singular + "s",
		pair.singular + "es",
		pair.singular + "ies",
		pair.singular + "en",
	}
	distractors := make([]string, 0, 3)
	for _, candidate := range candidates {
		if candidate == pair.plural {
			continue
		}
		distractors = append(distractors, candidate)
		if len(distractors) == 3 {
			break
		}
	}
	return prompt, pair.plural, distractors
}

func contains(set []string, value string) bool {
	for _, entry := range set {
		if entry == value {
			return true
		}
	}
	return false
}
