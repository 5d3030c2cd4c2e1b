// ABOUTME: Correlates a submitted user message with the service-authored answer
// ABOUTME: Positional-successor heuristic over the ordered message list with fallbacks

package genie

// ResolveAnswer locates the answer to the submitted message within the
// conversation's ordered message list.
//
// The id returned by a submission identifies the USER message, not the
// answer; with no correlation id in the protocol, the answer is taken to
// be the entry immediately following the submitted one. When the submitted
// id is absent from the list or has no successor, the fallback chain is:
// the message obtained from the completion poll, then the last list entry.
// The list endpoint can carry payloads (suggested follow-ups) that the
// polled message lacks, which is why the list is consulted first.
func ResolveAnswer(messages []Message, submittedID string, polled *Message) *Message {
	for i := range messages {
		if messages[i].MessageID == submittedID {
			if i+1 < len(messages) {
				return &messages[i+1]
			}
			break
		}
	}

	if polled != nil {
		return polled
	}
	if len(messages) > 0 {
		return &messages[len(messages)-1]
	}
	return nil
}

// LastAnswerID returns the id of the most recent non-USER message,
// scanning from the tail. Used to recover the answering message id when
// only the conversation is known.
func LastAnswerID(messages []Message) string {
	for i := len(messages) - 1; i >= 0; i-- {
		if messages[i].Role != RoleUser {
			return messages[i].MessageID
		}
	}
	return ""
}
