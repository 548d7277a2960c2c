package game

import (
	"context"
	"errors"
	"log"
	"math/rand"
	"sync"
	"time"

	"github.com/google/uuid"

	"eggadventure/internal/models"
)

// QuestionTime is the per-question countdown. When it expires without an
// answer, a timed-out nil answer is forced exactly once.
const QuestionTime = 20 * time.Second

// Phase is the controller's screen-level state
type Phase string

const (
	PhaseExplore Phase = "explore"
	PhaseQuiz    Phase = "quiz"
	PhaseSummary Phase = "summary"
)

// Notice kinds surfaced to the presentation layer
const (
	NoticeAuth       = "auth"
	NoticeSync       = "sync"
	NoticeValidation = "validation"
	NoticeInfo       = "info"
)

var (
	ErrNotInExplore      = errors.New("a challenge is already in progress")
	ErrNotInQuiz         = errors.New("no challenge in progress")
	ErrNotInSummary      = errors.New("no summary to acknowledge")
	ErrUnknownSubject    = errors.New("unknown subject")
	ErrUnknownGrade      = errors.New("unknown grade")
	ErrUnknownDifficulty = errors.New("unknown difficulty")
	ErrNoMissedQuestions = errors.New("no missed questions to reflect on")
	ErrInsufficientGold  = errors.New("not enough gold")
	ErrRewardNotFound    = errors.New("reward not found")
	ErrParentOnly        = errors.New("parent role required")
	ErrControllerClosed  = errors.New("controller is closed")
)

// Notice is a transient message attached to snapshots; the next player
// action clears it
type Notice struct {
	Kind    string `json:"kind"`
	Message string `json:"message"`
}

// SessionResult is the tally shown on the summary screen
type SessionResult struct {
	Correct int `json:"correct"`
	Total   int `json:"total"`
	Gold    int `json:"gold"`
}

// Snapshot is the full controller state republished to the presentation
// layer after every change
type Snapshot struct {
	Player        models.Player
	Phase         Phase
	Saving        bool
	Question      *Question
	QuestionIndex int
	QuestionTotal int
	Deadline      time.Time
	Results       *SessionResult
	Notice        *Notice
}

// Store is the remote profile store boundary: point read with default
// backfill, full-document overwrite, and subscription-based change
// notification.
type Store interface {
	// Load returns the merged profile and whether a stored document existed
	Load(ctx context.Context, userID string) (models.Player, bool, error)
	// Save overwrites the full profile document
	Save(ctx context.Context, userID string, p models.Player) error
	// Watch delivers confirmed profile snapshots until the cancel func runs
	Watch(userID string) (<-chan models.Player, func())
}

// Mailer notifies the parent email when a reward is redeemed. May be nil.
type Mailer interface {
	SendRewardRedeemed(ctx context.Context, to, rewardName string, cost int) error
}

type quizSession struct {
	subject    string
	grade      string
	difficulty string
	queue      []Question
	index      int
	correct    int
	gold       int
	timer      *time.Timer
	deadline   time.Time
}

// Controller is the single source of truth for one player's state. Every
// mutation computes a whole next-profile value, publishes it optimistically,
// and persists the full document in the background.
type Controller struct {
	userID string
	store  Store
	mailer Mailer

	startOnce sync.Once

	mu        sync.Mutex
	player    models.Player
	phase     Phase
	sess      *quizSession
	pending   int
	notice    *Notice
	results   *SessionResult
	subs      map[int]chan Snapshot
	nextSubID int
	stopWatch func()
	closed    bool

	// questionTime is QuestionTime in production; tests shorten it
	questionTime time.Duration
}

// NewController creates a controller for a user. Call Start to load the
// profile and begin watching for remote changes.
func NewController(userID string, store Store, mailer Mailer) *Controller {
	return &Controller{
		userID:       userID,
		store:        store,
		mailer:       mailer,
		phase:        PhaseExplore,
		subs:         make(map[int]chan Snapshot),
		questionTime: QuestionTime,
	}
}

// Start loads the profile, writing the default document when none exists,
// and subscribes to the store for confirmed snapshots. A load failure
// surfaces as a sync notice rather than an error; the controller keeps
// running on defaults so the UI can show the error state. Start is
// idempotent; concurrent callers wait for the first load to finish.
func (c *Controller) Start(ctx context.Context) {
	c.startOnce.Do(func() { c.start(ctx) })
}

func (c *Controller) start(ctx context.Context) {
	player, exists, err := c.store.Load(ctx, c.userID)

	c.mu.Lock()
	switch {
	case err != nil:
		log.Printf("profile load failed for user %s: %v", c.userID, err)
		c.player = models.DefaultPlayer()
		c.notice = &Notice{Kind: NoticeSync, Message: "無法載入雲端資料"}
	case !exists:
		c.player = models.DefaultPlayer()
		c.persistLocked()
	default:
		c.player = player
		c.clampRoomLocked()
	}
	c.publishLocked()
	c.mu.Unlock()

	updates, cancel := c.store.Watch(c.userID)
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		cancel()
		return
	}
	c.stopWatch = cancel
	c.mu.Unlock()

	go func() {
		for p := range updates {
			c.onRemoteSnapshot(p)
		}
	}()
}

// onRemoteSnapshot applies a confirmed profile from the store subscription.
// Snapshots at or below the local version are echoes of our own optimistic
// writes and are dropped, so a slow write never clobbers newer local state.
func (c *Controller) onRemoteSnapshot(p models.Player) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed || p.Version <= c.player.Version {
		return
	}
	c.player = p
	c.clampRoomLocked()
	c.publishLocked()
}

// State returns the current snapshot
func (c *Controller) State() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.snapshotLocked()
}

// Subscribe registers a presentation-layer listener. Slow listeners miss
// intermediate snapshots rather than blocking mutations.
func (c *Controller) Subscribe() (<-chan Snapshot, func()) {
	c.mu.Lock()
	defer c.mu.Unlock()

	id := c.nextSubID
	c.nextSubID++
	ch := make(chan Snapshot, 8)
	c.subs[id] = ch

	cancel := func() {
		c.mu.Lock()
		defer c.mu.Unlock()
		if _, ok := c.subs[id]; ok {
			delete(c.subs, id)
			close(ch)
		}
	}
	return ch, cancel
}

// StartChallenge builds the question queue and transitions to the quiz
// state. For the reflection difficulty the pool is the player's missed
// questions for that subject and grade, across all difficulties; an empty
// pool surfaces a notice and stays in explore.
func (c *Controller) StartChallenge(subject, grade, difficulty string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return ErrControllerClosed
	}
	if c.phase != PhaseExplore {
		return ErrNotInExplore
	}
	if !KnownSubject(subject) {
		return ErrUnknownSubject
	}
	if !KnownGrade(grade) {
		return ErrUnknownGrade
	}
	if difficulty != DifficultyReflection && !KnownDifficulty(difficulty) {
		return ErrUnknownDifficulty
	}

	var pool []Question
	if difficulty == DifficultyReflection {
		for _, id := range c.player.WrongQuestions.IDs(subject, grade) {
			if q, ok := Find(id); ok {
				pool = append(pool, q)
			}
		}
		if len(pool) == 0 {
			c.notice = &Notice{Kind: NoticeInfo, Message: "目前沒有錯題可以複習"}
			c.publishLocked()
			return ErrNoMissedQuestions
		}
	} else {
		pool = Bank(subject, grade, difficulty)
	}

	queue := append([]Question{}, pool...)
	rand.Shuffle(len(queue), func(i, j int) {
		queue[i], queue[j] = queue[j], queue[i]
	})
	if len(queue) > SessionMax {
		queue = queue[:SessionMax]
	}

	c.sess = &quizSession{
		subject:    subject,
		grade:      grade,
		difficulty: difficulty,
		queue:      queue,
	}
	c.phase = PhaseQuiz
	c.results = nil
	c.notice = nil
	c.armTimerLocked()
	c.publishLocked()
	return nil
}

// Answer evaluates the selected option against the current question. A nil
// selection means the countdown ran out.
func (c *Controller) Answer(selected *string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return ErrControllerClosed
	}
	if c.phase != PhaseQuiz || c.sess == nil {
		return ErrNotInQuiz
	}
	c.notice = nil
	c.answerLocked(selected)
	return nil
}

func (c *Controller) answerLocked(selected *string) {
	sess := c.sess
	if sess.timer != nil {
		sess.timer.Stop()
		sess.timer = nil
	}

	question := sess.queue[sess.index]
	correct := selected != nil && *selected == question.Answer

	next := c.player.Clone()
	dirty := false
	if correct {
		sess.correct++
		sess.gold += GoldPerCorrect
		if next.WrongQuestions.Has(sess.subject, sess.grade, question.ID) {
			next.WrongQuestions.Remove(sess.subject, sess.grade, question.ID)
			dirty = true
		}
	} else {
		next.HP -= HPPenalty
		next.ClampHP()
		next.WrongQuestions.Add(sess.subject, sess.grade, question.ID)
		dirty = true
	}
	if dirty {
		c.mutateLocked(next)
	}

	sess.index++
	if sess.index < len(sess.queue) && c.player.HP > 0 {
		c.armTimerLocked()
	} else {
		c.phase = PhaseSummary
		c.results = &SessionResult{
			Correct: sess.correct,
			Total:   len(sess.queue),
			Gold:    sess.gold,
		}
	}
	c.publishLocked()
}

// armTimerLocked starts the countdown for the current question. The timer
// callback re-checks session identity and question index so a stale fire
// from an abandoned session can never force a timeout into a new one.
func (c *Controller) armTimerLocked() {
	sess := c.sess
	index := sess.index
	sess.deadline = time.Now().Add(c.questionTime)
	sess.timer = time.AfterFunc(c.questionTime, func() {
		c.mu.Lock()
		defer c.mu.Unlock()
		if c.closed || c.phase != PhaseQuiz || c.sess != sess || sess.index != index {
			return
		}
		c.answerLocked(nil)
	})
}

// AcknowledgeSummary banks the session gold into the profile and returns to
// the explore state
func (c *Controller) AcknowledgeSummary() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return ErrControllerClosed
	}
	if c.phase != PhaseSummary || c.results == nil {
		return ErrNotInSummary
	}
	c.notice = nil

	next := c.player.Clone()
	next.Gold += c.results.Gold
	c.mutateLocked(next)

	c.phase = PhaseExplore
	c.sess = nil
	c.results = nil
	c.publishLocked()
	return nil
}

// SetRoom moves the player. An unknown key clamps to the start room and the
// clamped value is what persists, so the stored document always resolves.
func (c *Controller) SetRoom(key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return ErrControllerClosed
	}
	if !RoomExists(key) {
		key = StartRoomKey
	}
	c.notice = nil
	next := c.player.Clone()
	next.CurrentRoom = key
	c.mutateLocked(next)
	c.publishLocked()
	return nil
}

// ToggleRole flips between student and parent mode
func (c *Controller) ToggleRole() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return ErrControllerClosed
	}
	c.notice = nil
	next := c.player.Clone()
	if next.Role == models.RoleParent {
		next.Role = models.RoleStudent
	} else {
		next.Role = models.RoleParent
	}
	c.mutateLocked(next)
	c.publishLocked()
	return nil
}

// SetParentEmail updates the display email used for reward notifications
func (c *Controller) SetParentEmail(email string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return ErrControllerClosed
	}
	if c.player.Role != models.RoleParent {
		return ErrParentOnly
	}
	c.notice = nil
	next := c.player.Clone()
	next.ParentEmail = email
	c.mutateLocked(next)
	c.publishLocked()
	return nil
}

// AddReward appends a parent-defined reward and returns its generated ID
func (c *Controller) AddReward(name string, cost int) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return "", ErrControllerClosed
	}
	if c.player.Role != models.RoleParent {
		return "", ErrParentOnly
	}
	c.notice = nil

	reward := models.Reward{ID: uuid.New().String(), Name: name, Cost: cost}
	next := c.player.Clone()
	next.FamilyRewards = append(next.FamilyRewards, reward)
	c.mutateLocked(next)
	c.publishLocked()
	return reward.ID, nil
}

// RemoveReward deletes a reward definition by ID
func (c *Controller) RemoveReward(rewardID string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return ErrControllerClosed
	}
	if c.player.Role != models.RoleParent {
		return ErrParentOnly
	}
	c.notice = nil

	next := c.player.Clone()
	kept := next.FamilyRewards[:0]
	found := false
	for _, reward := range next.FamilyRewards {
		if reward.ID == rewardID {
			found = true
			continue
		}
		kept = append(kept, reward)
	}
	if !found {
		return ErrRewardNotFound
	}
	next.FamilyRewards = kept
	c.mutateLocked(next)
	c.publishLocked()
	return nil
}

// RedeemReward deducts the reward cost from the gold balance. With
// insufficient gold it emits a notice and changes nothing.
func (c *Controller) RedeemReward(rewardID string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return ErrControllerClosed
	}
	c.notice = nil

	var reward *models.Reward
	for i := range c.player.FamilyRewards {
		if c.player.FamilyRewards[i].ID == rewardID {
			reward = &c.player.FamilyRewards[i]
			break
		}
	}
	if reward == nil {
		return ErrRewardNotFound
	}
	if c.player.Gold < reward.Cost {
		c.notice = &Notice{Kind: NoticeValidation, Message: "金幣不足，無法兌換"}
		c.publishLocked()
		return ErrInsufficientGold
	}

	next := c.player.Clone()
	next.Gold -= reward.Cost
	c.mutateLocked(next)
	c.publishLocked()

	if c.mailer != nil && next.ParentEmail != "" {
		to, name, cost := next.ParentEmail, reward.Name, reward.Cost
		go func() {
			if err := c.mailer.SendRewardRedeemed(context.Background(), to, name, cost); err != nil {
				log.Printf("reward notification to %s failed: %v", to, err)
			}
		}()
	}
	return nil
}

// Close stops the countdown timer, releases the store subscription and
// drops all listeners. Called on sign-out so another account's snapshots
// are never acted on.
func (c *Controller) Close() {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	c.closed = true
	if c.sess != nil && c.sess.timer != nil {
		c.sess.timer.Stop()
		c.sess.timer = nil
	}
	stop := c.stopWatch
	c.stopWatch = nil
	for id, ch := range c.subs {
		delete(c.subs, id)
		close(ch)
	}
	c.mu.Unlock()

	if stop != nil {
		stop()
	}
}

// mutateLocked installs the next profile, stamps the version, and persists
// the full document in the background. Local state is updated first; a
// failed write keeps the optimistic state and surfaces a sync notice.
func (c *Controller) mutateLocked(next models.Player) {
	next.Version = c.player.Version + 1
	next.UpdatedAt = time.Now().UTC()
	c.player = next
	c.persistLocked()
}

// persistLocked writes the full document in the background. Saves can
// overlap, so the saving indicator counts outstanding writes rather than
// tracking the latest one.
func (c *Controller) persistLocked() {
	c.pending++
	snapshot := c.player.Clone()
	go func() {
		err := c.store.Save(context.Background(), c.userID, snapshot)

		c.mu.Lock()
		defer c.mu.Unlock()
		c.pending--
		if err != nil {
			log.Printf("profile save failed for user %s: %v", c.userID, err)
			c.notice = &Notice{Kind: NoticeSync, Message: "雲端儲存失敗，進度可能未同步"}
		}
		c.publishLocked()
	}()
}

func (c *Controller) snapshotLocked() Snapshot {
	snap := Snapshot{
		Player:  c.player.Clone(),
		Phase:   c.phase,
		Saving:  c.pending > 0,
		Results: c.results,
		Notice:  c.notice,
	}
	if c.phase == PhaseQuiz && c.sess != nil && c.sess.index < len(c.sess.queue) {
		question := c.sess.queue[c.sess.index]
		snap.Question = &question
		snap.QuestionIndex = c.sess.index
		snap.QuestionTotal = len(c.sess.queue)
		snap.Deadline = c.sess.deadline
	}
	return snap
}

func (c *Controller) publishLocked() {
	snap := c.snapshotLocked()
	for _, ch := range c.subs {
		select {
		case ch <- snap:
		default:
		}
	}
}

func (c *Controller) clampRoomLocked() {
	if !RoomExists(c.player.CurrentRoom) {
		c.player.CurrentRoom = StartRoomKey
	}
}
