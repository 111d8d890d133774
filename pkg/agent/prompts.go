package agent

// ConversationInstruction is the default system prompt of the conversation graph.
const ConversationInstruction = "You are a helpful customer support representative answering user questions. Be helpful and concise."

// ToolInstruction is the default system prompt of the tool-augmented graph.
const ToolInstruction = `You are a helpful assistant with access to tools.

When asked to check weather, use the get_weather tool.
When asked to define a word, use the define_word tool.
When asked for recent information, use the web_search tool.

Only use tools when necessary - for simple questions, answer directly.`
