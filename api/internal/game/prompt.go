package game

import (
	"fmt"
	"strings"
)

const answerPrefix = "Next topic="

// The target is stated both before and after the link list on purpose:
// models anchor on the ends of the prompt.
const promptTemplate = `You are playing the Wikipedia Game where you must find a chain of
Wikipedia pages that connect a source topic to a target topic. Your source topic was %s
and your target topic is %s. You are currently at the topic of %s, and you must select
a new topic from the linked pages here that will make it likely for you to connect to the target topic
soon. Your possible choices are:

%s

Select the topic above most likely to route you to %s as fast as possible. Format your output as:
` + answerPrefix + `<topic here>
`

func buildPrompt(start, target, current string, candidates []string) string {
	return fmt.Sprintf(promptTemplate, start, target, current, strings.Join(candidates, "\n"), target)
}
