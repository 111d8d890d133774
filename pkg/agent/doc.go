/*
Package agent provides the steps and graphs of the two conversation pipelines.

  - NewConversationGraph: assistant, then end.
  - NewToolGraph: assistant, then either tools (and back to assistant) or end,
    decided by ShouldContinue.

Steps are plain domain.StepFunc values, so custom graphs can reuse them
through the dsl package.
*/
package agent
