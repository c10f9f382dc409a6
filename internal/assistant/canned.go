package assistant

import (
	"context"
	"io"
	"math/rand"
	"strings"
	"time"

	"github.com/certifyai/certify-backend/internal/model"
)

// cannedRule pairs trigger keywords with a canned body. Rules are evaluated
// top to bottom against the lowercased latest user turn; first hit wins.
type cannedRule struct {
	keywords []string
	body     string
}

var cannedRules = []cannedRule{
	{keywords: []string{"explain", "concept"}, body: cannedExplain},
	{keywords: []string{"hint", "guide"}, body: cannedHint},
	{keywords: []string{"wrong", "incorrect"}, body: cannedWrong},
	{keywords: []string{"related", "study"}, body: cannedConcepts},
}

// CannedResponder is the development-mode substitute used when no upstream
// credential is configured. It streams a keyword-matched canned body one
// word at a time with small randomized delays.
type CannedResponder struct {
	// delay produces the pause before each fragment; nil means the default
	// 30-70ms typing simulation. Tests inject a zero delay.
	delay func() time.Duration
}

// NewCannedResponder creates the fallback responder.
func NewCannedResponder(delay func() time.Duration) *CannedResponder {
	if delay == nil {
		delay = func() time.Duration {
			return time.Duration(30+rand.Intn(40)) * time.Millisecond
		}
	}
	return &CannedResponder{delay: delay}
}

// Stream never fails; the canned body is fully determined by the request.
func (r *CannedResponder) Stream(ctx context.Context, req *model.ChatRequest) (Stream, error) {
	body := pickCannedBody(latestUserTurn(req.Messages))
	body = personalizedPrefix(req.Personalization) + body

	return &cannedStream{
		ctx:   ctx,
		words: strings.Split(body, " "),
		delay: r.delay,
	}, nil
}

func latestUserTurn(turns []model.ChatTurn) string {
	for i := len(turns) - 1; i >= 0; i-- {
		if turns[i].Role == model.ChatRoleUser {
			return turns[i].Content
		}
	}
	return ""
}

func pickCannedBody(message string) string {
	lower := strings.ToLower(message)
	for _, rule := range cannedRules {
		for _, kw := range rule.keywords {
			if strings.Contains(lower, kw) {
				return rule.body
			}
		}
	}
	return cannedDefault
}

func personalizedPrefix(p *model.PersonalizationContext) string {
	if p == nil {
		return ""
	}
	switch p.ExperienceLevel {
	case "beginner":
		return "Let me explain this in simple terms:\n\n"
	case "advanced":
		return "Quick summary:\n\n"
	}
	return ""
}

type cannedStream struct {
	ctx   context.Context
	words []string
	idx   int
	delay func() time.Duration
}

func (s *cannedStream) Recv() (string, error) {
	if s.idx >= len(s.words) {
		return "", io.EOF
	}
	if d := s.delay(); d > 0 {
		select {
		case <-s.ctx.Done():
			return "", s.ctx.Err()
		case <-time.After(d):
		}
	}
	word := s.words[s.idx]
	s.idx++
	if s.idx < len(s.words) {
		word += " "
	}
	return word, nil
}

func (s *cannedStream) Close() error { return nil }

const cannedExplain = `## Understanding This Question

This question is testing your understanding of **professional standards and ethical conduct**.

**Key Concepts:**
- The question focuses on *compliance procedures* and *supervisory responsibilities*
- It's asking about recommended practices, not mandatory requirements
- Consider the practical implications of each choice

**What to Look For:**
1. Options that align with fiduciary principles
2. Separation of ethical codes from detailed procedures
3. Client communication appropriateness

Think about the underlying principle: ethics codes should provide broad guidance while compliance procedures handle specific implementation details.

Would you like me to explain any specific option?`

const cannedHint = `## Here's a Helpful Hint

Without giving away the answer, consider this:

**Think about the purpose of each document:**
- An **ethics code** → High-level principles and values
- **Compliance procedures** → Specific, detailed implementation steps

**Ask yourself:**
- Should clients need to know the firm's internal compliance details?
- Should ethics and compliance be combined or separate?

The correct answer reflects *best practices* for maintaining both ethical standards AND practical compliance.

*Focus on what supervisors should **encourage** firms to adopt.*`

const cannedWrong = `## Let's Understand Why That Might Not Be Right

Don't worry - this is a tricky question! Let me help clarify:

**Common Misconceptions:**
- Sharing detailed compliance procedures with clients seems transparent, but it's not recommended practice
- Combining ethics codes with compliance procedures can create confusion

**The Key Insight:**
Ethics codes should be *principle-based* and broadly applicable, while compliance procedures are *specific* and internal.

**Remember:**
- Ethics → **What** we should do (principles)
- Compliance → **How** we do it (procedures)

Would you like me to walk through each option in detail?`

const cannedConcepts = `## Related Concepts to Study

Based on this question, here are the key topics you should review:

### 1. Standards of Professional Conduct
- Fiduciary duty and its applications
- Supervisory responsibilities
- Independence and objectivity requirements

### 2. Compliance Programs
- Elements of an effective compliance system
- Role of compliance officers
- Documentation requirements

### 3. Code of Ethics vs. Compliance Manual
- Purpose and scope differences
- Implementation strategies
- Client communication guidelines

**Study Tip:** The official standards handbook has detailed guidance on each of these areas.

Would you like me to elaborate on any of these topics?`

const cannedDefault = `## Let Me Help You With This!

Great question! Let me break this down:

**What This Question Tests:**
- Your understanding of professional standards
- Knowledge of best practices
- Ability to distinguish between ethics and compliance

**Approach:**
1. First, identify what the question is really asking
2. Consider the practical implications of each option
3. Think about the underlying principles

**Key Takeaway:**
The correct answer will align with established best practices that promote both ethical conduct AND effective compliance.

Is there a specific aspect you'd like me to clarify further?`
