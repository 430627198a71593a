package steps

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/cucumber/godog"
	"voightkampff/internal/app/domain/dialog"
	"voightkampff/internal/app/domain/event"
	"voightkampff/internal/app/domain/poll"
	"voightkampff/internal/app/ports"
	"voightkampff/pkg/logger"
)

const defaultLang = "en-us"

// Harness carries everything a scenario needs: no package-level state,
// one instance per suite. The logger is re-scoped per scenario so log
// lines name the scenario they belong to.
type Harness struct {
	log      logger.Logger
	scenLog  logger.Logger
	bus      ports.BusPort
	loader   ports.LoaderPort
	resolver ports.ResolverPort
	poller   *poll.Poller

	lang    string
	matched event.Message
}

func New(log logger.Logger, bus ports.BusPort, loader ports.LoaderPort, resolver ports.ResolverPort, poller *poll.Poller, lang string) *Harness {
	if lang == "" {
		lang = defaultLang
	}
	return &Harness{
		log:      log,
		scenLog:  log,
		bus:      bus,
		loader:   loader,
		resolver: resolver,
		poller:   poller,
		lang:     lang,
	}
}

// Register wires every step definition into the godog scenario
// context. "the user says" appears twice on purpose: as a When it
// opens a scenario, as a Then it is a follow-up that must wait for the
// assistant to finish speaking first.
func (h *Harness) Register(ctx *godog.ScenarioContext) {
	ctx.Before(func(c context.Context, sc *godog.Scenario) (context.Context, error) {
		h.bus.Clear()
		h.matched = event.Message{}
		h.scenLog = logger.NewPrefixedLogger(h.log, sc.Name)
		return c, nil
	})

	ctx.Given(`^an english speaking user$`, h.givenEnglishSpeakingUser)
	ctx.When(`^the user says "([^"]*)"$`, h.whenUserSays)
	ctx.Then(`^the user says "([^"]*)"$`, h.thenUserFollowsUp)
	ctx.Then(`^"([^"]*)" should reply with dialog from "([^"]*)"$`, h.thenReplyWithDialog)
	ctx.Then(`^"([^"]*)" should reply with "([^"]*)"$`, h.thenReplyWithExample)
	ctx.Then(`^"([^"]*)" should reply with anything$`, h.thenReplyWithAnything)
	ctx.Then(`^"([^"]*)" should reply with exactly "([^"]*)"$`, h.thenReplyWithExactly)
	ctx.Then(`^mycroft reply should contain "([^"]*)"$`, h.thenReplyContains)
}

// Matched returns the speak message that satisfied the last passing
// reply assertion.
func (h *Harness) Matched() event.Message {
	return h.matched
}

func (h *Harness) givenEnglishSpeakingUser() error {
	h.lang = defaultLang
	return nil
}

func (h *Harness) whenUserSays(text string) error {
	return h.bus.EmitUtterance(context.Background(), text, h.lang, "")
}

// thenUserFollowsUp lets the assistant settle and finish speaking
// before the next utterance, so the reply to the follow-up is not
// drowned out by the previous response.
func (h *Harness) thenUserFollowsUp(text string) error {
	time.Sleep(2 * time.Second)
	h.bus.WaitWhileSpeaking(h.window())
	return h.bus.EmitUtterance(context.Background(), text, h.lang, "")
}

func (h *Harness) thenReplyWithDialog(skill, dialogName string) error {
	res := h.poller.Wait(h.bus, event.TypeSpeak, poll.FromDialog(dialogName))
	if !res.OK {
		return h.failure(fmt.Sprintf("%s never replied from dialog %q", skill, dialogName), res)
	}
	h.matched = res.Matched
	return nil
}

// thenReplyWithExample infers which dialog resource the example
// sentence came from, then waits for a reply from that resource.
func (h *Harness) thenReplyWithExample(skill, example string) error {
	skillPath, err := h.resolver.FindSkill(skill)
	if err != nil {
		return err
	}

	sets, err := h.loader.LoadAll(skillPath)
	if err != nil {
		return err
	}

	trace := &dialog.Trace{}
	name, ok := dialog.BestMatch(sets, strings.ToLower(example), trace)
	if !ok {
		return fmt.Errorf("no dialog of %s matches %q; tried:\n%s", skill, example, trace.String())
	}

	h.scenLog.Debug("Matched example to dialog file", "dialog", name, "example", example)
	return h.thenReplyWithDialog(skill, name)
}

func (h *Harness) thenReplyWithAnything(skill string) error {
	res := h.poller.Wait(h.bus, event.TypeSpeak, poll.Anything())
	if !res.OK {
		return fmt.Errorf("no speech received at all from %s", skill)
	}
	h.matched = res.Matched
	return nil
}

func (h *Harness) thenReplyWithExactly(skill, text string) error {
	res := h.poller.Wait(h.bus, event.TypeSpeak, poll.Exactly(text))
	if !res.OK {
		return h.failure(fmt.Sprintf("%s never replied with exactly %q", skill, text), res)
	}
	h.matched = res.Matched
	return nil
}

func (h *Harness) thenReplyContains(text string) error {
	res := h.poller.Wait(h.bus, event.TypeSpeak, poll.Contains(text))
	if !res.OK {
		return h.failure(fmt.Sprintf("no speech contained %q", text), res)
	}
	h.matched = res.Matched
	return nil
}

// window is how long a reply assertion keeps trying; reused as the
// speech-sync timeout.
func (h *Harness) window() time.Duration {
	return time.Duration(h.poller.MaxAttempts) * h.poller.Interval
}

// failure builds an assertion error carrying the comparison trace and
// everything the assistant actually said during the window.
func (h *Harness) failure(msg string, res poll.Result) error {
	var b strings.Builder
	b.WriteString(msg)
	if res.Trace != "" {
		b.WriteString("\n")
		b.WriteString(res.Trace)
	}
	if len(res.Observed) > 0 {
		b.WriteString("\nassistant responded with:\n")
		for _, m := range res.Observed {
			fmt.Fprintf(&b, "  %q\n", m.Utterance())
		}
	}
	return fmt.Errorf("%s", b.String())
}
