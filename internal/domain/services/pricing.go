package services

// BaseCreationCost is the flat token charge for creating or duplicating an
// assistant, on top of the instruction text cost.
const BaseCreationCost int64 = 100

// EstimateTokens approximates token consumption as ceil(len/4). It is a
// character heuristic, not a tokenizer; the authoritative chat cost comes
// from the provider's usage count after the call.
func EstimateTokens(text string) int64 {
	return int64((len(text) + 3) / 4)
}

// InstructionCost prices the stored instruction text of an assistant.
func InstructionCost(instructions, welcomeMessage string) int64 {
	return EstimateTokens(instructions + welcomeMessage)
}
