package chat

import "regexp"

// 閒聊分類與固定回覆池。隨機挑選由 Dispatcher 注入的 pick 函式決定。

var (
	greetingRegex  = regexp.MustCompile(`hello|hi|hey|greetings`)
	helpRegex      = regexp.MustCompile(`help|what.*can.*you|how.*do.*you|what.*you.*do`)
	thanksRegex    = regexp.MustCompile(`thanks|thank you|appreciate`)
	goodbyeRegex   = regexp.MustCompile(`bye|goodbye|see you|later`)
	identityRegex  = regexp.MustCompile(`what.*is.*bitewise|what.*are.*you|who.*are.*you`)
	howWorkRegex   = regexp.MustCompile(`how.*work|how.*do.*you|what.*can.*you.*do`)
	nutritionRegex = regexp.MustCompile(`what.*is.*good.*for|healthy.*food|nutrition|vitamin|protein|calorie`)
)

var greetingReplies = []string{
	"Hello! I'm BiteWise, your dietary companion. How can I help you today?",
	"Hi there! I'm here to help with recipes, meal planning, and dietary questions. What would you like to know?",
	"Hey! I'm BiteWise. I can help you find recipes, plan meals, check allergens, and more. What can I do for you?",
}

var helpReplies = []string{
	"I can help you with:\n• Finding recipes based on dietary restrictions\n• Meal planning for multiple days\n• Checking allergens in recipes\n• Finding ingredient substitutions\n• Restaurant recommendations\n\nJust ask me anything food-related!",
	"Here's what I can do:\n• Search recipes (e.g., 'Show me vegan pasta')\n• Plan meals (e.g., 'Plan my meals for 3 days')\n• Explain allergens (e.g., 'Why can't I eat this?')\n• Suggest substitutions (e.g., 'Substitute for milk')\n• Find restaurants (e.g., 'Vegan restaurants near me')\n\nWhat would you like help with?",
}

var thanksReplies = []string{
	"You're welcome! Feel free to ask if you need anything else.",
	"Happy to help! Let me know if you have more questions.",
	"Anytime! I'm here whenever you need assistance with food and recipes.",
}

var goodbyeReplies = []string{
	"Goodbye! Have a great day and enjoy your meals!",
	"See you later! Stay healthy!",
	"Take care! Come back anytime you need recipe help.",
}

const identityReply = "I'm BiteWise, an AI assistant designed to help people with dietary restrictions and food allergies. I can help you find safe recipes, plan meals, check for allergens, and suggest ingredient substitutions. How can I assist you today?"

const nutritionReply = "I can help you find healthy recipes and nutritional information! Try asking me things like:\n• 'Show me high-protein recipes'\n• 'Find low-calorie meals'\n• 'What are good sources of [nutrient]'\n\nOr I can search for specific recipes that match your dietary needs. What would you like to know?"

const fallbackReply = "I'm BiteWise, your dietary companion! I specialize in helping with recipes, meal planning, and dietary restrictions. While I'm best at food-related questions, I'm here to help however I can.\n\nTry asking me:\n• 'Show me vegan recipes'\n• 'Plan my meals for 2 days'\n• 'What can I substitute for eggs?'\n• 'Why can't I eat this dish?'\n\nWhat would you like help with?"

// smallTalkReply 依序比對閒聊類別並回傳對應回覆
// pick 接收池大小並回傳索引，測試時可固定
func smallTalkReply(lower string, pick func(n int) int) string {
	switch {
	case greetingRegex.MatchString(lower):
		return greetingReplies[pick(len(greetingReplies))]
	case helpRegex.MatchString(lower):
		return helpReplies[pick(len(helpReplies))]
	case thanksRegex.MatchString(lower):
		return thanksReplies[pick(len(thanksReplies))]
	case goodbyeRegex.MatchString(lower):
		return goodbyeReplies[pick(len(goodbyeReplies))]
	case identityRegex.MatchString(lower):
		return identityReply
	case howWorkRegex.MatchString(lower):
		return helpReplies[pick(len(helpReplies))]
	case nutritionRegex.MatchString(lower):
		return nutritionReply
	default:
		return fallbackReply
	}
}
