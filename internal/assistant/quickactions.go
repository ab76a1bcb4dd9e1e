package assistant

import (
	"strings"

	"travel-vault-server/internal/model"
)

// actionRule pairs trigger keywords with the action set suggested when the
// last user message matches. Rules are evaluated in order and the first match
// wins, so at most one category's actions are ever shown.
type actionRule struct {
	category string
	keywords []string
	actions  []model.QuickAction
}

var actionRules = []actionRule{
	{
		category: "packing",
		keywords: []string{"pack", "packing", "luggage", "suitcase", "bring"},
		actions: []model.QuickAction{
			{ID: "packing-checklist", Icon: "list", Title: "Packing List", Subtitle: "Get a full checklist", Action: "Create a complete packing checklist for my trip", Color: "#10b981"},
			{ID: "packing-essentials", Icon: "briefcase", Title: "Essentials", Subtitle: "Must-have items", Action: "What are the absolute essentials I should never travel without?", Color: "#10b981"},
			{ID: "packing-carryon", Icon: "bag", Title: "Carry-on Only", Subtitle: "Travel light", Action: "How can I fit everything in just a carry-on?", Color: "#10b981"},
		},
	},
	{
		category: "flight",
		keywords: []string{"flight", "flights", "fly", "flying", "airline", "airport", "layover"},
		actions: []model.QuickAction{
			{ID: "flight-deals", Icon: "plane", Title: "Find Deals", Subtitle: "Cheapest days to fly", Action: "When is the cheapest time to book flights?", Color: "#f59e0b"},
			{ID: "flight-comfort", Icon: "star", Title: "Long-haul Tips", Subtitle: "Stay comfortable", Action: "Tips for staying comfortable on a long-haul flight", Color: "#f59e0b"},
			{ID: "flight-delays", Icon: "calendar", Title: "Delays", Subtitle: "Know your rights", Action: "What should I do if my flight is delayed or cancelled?", Color: "#f59e0b"},
		},
	},
	{
		category: "hotel",
		keywords: []string{"hotel", "hotels", "hostel", "accommodation", "stay", "airbnb", "resort"},
		actions: []model.QuickAction{
			{ID: "hotel-booking", Icon: "hotel", Title: "Book Smart", Subtitle: "Best booking tips", Action: "What are the best strategies for booking hotels?", Color: "#8b5cf6"},
			{ID: "hotel-loyalty", Icon: "star", Title: "Loyalty Perks", Subtitle: "Earn more points", Action: "How do I get the most out of hotel loyalty programs?", Color: "#8b5cf6"},
		},
	},
	{
		category: "destination",
		keywords: []string{"destination", "visit", "city", "country", "itinerary", "sightseeing", "attractions"},
		actions: []model.QuickAction{
			{ID: "destination-itinerary", Icon: "map", Title: "Itinerary", Subtitle: "Plan my days", Action: "Build me a day-by-day itinerary for this destination", Color: "#ec4899"},
			{ID: "destination-hidden", Icon: "pin", Title: "Hidden Gems", Subtitle: "Off the beaten path", Action: "What are some hidden gems most tourists miss?", Color: "#ec4899"},
			{ID: "destination-timing", Icon: "calendar", Title: "Best Time", Subtitle: "When to go", Action: "What is the best time of year to visit?", Color: "#ec4899"},
		},
	},
	{
		category: "food",
		keywords: []string{"food", "eat", "restaurant", "restaurants", "cuisine", "dining", "dish"},
		actions: []model.QuickAction{
			{ID: "food-local", Icon: "utensils", Title: "Local Dishes", Subtitle: "What to try", Action: "What local dishes should I try?", Color: "#f97316"},
			{ID: "food-budget", Icon: "wallet", Title: "Eat Cheap", Subtitle: "Great food, less money", Action: "Where can I find great food on a budget?", Color: "#f97316"},
		},
	},
	{
		category: "budget",
		keywords: []string{"budget", "cheap", "cost", "money", "save", "expensive", "affordable"},
		actions: []model.QuickAction{
			{ID: "budget-plan", Icon: "wallet", Title: "Budget Plan", Subtitle: "Estimate my costs", Action: "Help me estimate a daily budget for my trip", Color: "#22c55e"},
			{ID: "budget-save", Icon: "piggy-bank", Title: "Save More", Subtitle: "Cut travel costs", Action: "What are the best ways to save money while traveling?", Color: "#22c55e"},
		},
	},
}

// firstExchangeActions surface after the very first reply of a transcript
// when no keyword rule matched.
var firstExchangeActions = []model.QuickAction{
	{ID: "first-destination", Icon: "map", Title: "Destinations", Subtitle: "Where to go next", Action: "Suggest some travel destinations for my next trip", Color: "#6366f1"},
	{ID: "first-packing", Icon: "briefcase", Title: "Packing Help", Subtitle: "What to bring", Action: "Help me figure out what to pack", Color: "#6366f1"},
	{ID: "first-flights", Icon: "plane", Title: "Flight Tips", Subtitle: "Fly smarter", Action: "Share your best flight booking tips", Color: "#6366f1"},
}

// wordSet tokenizes text into lowercase words so keywords match whole words
// only. Substring matching would trip on words like "weather" containing
// "eat".
func wordSet(text string) map[string]struct{} {
	words := strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !('a' <= r && r <= 'z' || '0' <= r && r <= '9')
	})
	set := make(map[string]struct{}, len(words))
	for _, w := range words {
		set[w] = struct{}{}
	}
	return set
}

// deriveQuickActions picks the suggestion set for the just-answered user
// message. firstExchange reports whether that message opened the transcript.
func deriveQuickActions(userText string, firstExchange bool) []model.QuickAction {
	words := wordSet(userText)
	for _, rule := range actionRules {
		for _, kw := range rule.keywords {
			if _, ok := words[kw]; ok {
				out := make([]model.QuickAction, len(rule.actions))
				copy(out, rule.actions)
				return out
			}
		}
	}
	if firstExchange {
		out := make([]model.QuickAction, len(firstExchangeActions))
		copy(out, firstExchangeActions)
		return out
	}
	return nil
}
