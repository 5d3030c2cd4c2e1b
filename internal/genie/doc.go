// Package genie implements the conversation orchestration and
// response-normalization engine for a Databricks Genie space.
//
// # Flow
//
// A question moves through four stages, all built atop the authenticated
// request executor:
//
//	Session (start / continue) -> Poller -> Resolver -> Normalizer
//
// The Session owns the conversation identifier and exposes the
// caller-facing surface: AskNew, AskFollowUp, SampleQuestions, SpaceInfo,
// and SendFeedback. The Poller waits for the service to finish processing
// a submitted message. The Resolver correlates the submitted user message
// with the service-authored answer in the conversation's ordered message
// list. The Normalizer turns the answer's attachments into exactly one of
// {plain text, tabular result} plus suggested follow-up questions.
//
// # Error posture
//
// Ask operations always produce a typed Result: transport and HTTP
// failures degrade into a user-facing text result, and normalization
// never fails — it falls back to the message's own content and finally to
// a fixed placeholder. Feedback is best-effort and reports only a boolean.
package genie
