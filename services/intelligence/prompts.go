// File: services/intelligence/prompts.go
package ai

import (
	"fmt"
	"strings"
	"time"

	"calbot/models"
)

func classifyPrompt(message string) string {
	return fmt.Sprintf(`Analyze this user message and determine the primary intent:

Message: %q

Choose ONE of these intents:
1. book_appointment - user wants to book/schedule a new appointment
2. check_availability - user wants to check if a specific time is available
3. suggest_times - user wants suggestions for available times
4. cancel_appointment - user wants to cancel an existing appointment
5. modify_appointment - user wants to change an existing appointment
6. list_appointments - user wants to see their scheduled appointments
7. general_query - general conversation or unclear intent

Respond with ONLY the intent name (e.g., "book_appointment").`, message)
}

func extractPrompt(message string, intent models.Intent, now time.Time) string {
	return fmt.Sprintf(`Extract relevant information from this message for calendar booking:

Message: %q
Intent: %s

Extract the following information if present:
- title: appointment title/subject
- date: any date mentioned (convert to YYYY-MM-DD format, use today's date as reference)
- time: any time mentioned (convert to HH:MM format, 24-hour)
- duration: duration in minutes if mentioned
- description: any additional details
- participant: other people mentioned

Important: Return ONLY valid JSON without any markdown formatting or code blocks.
If information is not present, use null.
Example: {"title": "Meeting", "date": "2024-01-15", "time": "14:00", "duration": 60, "description": null, "participant": null}

Current date for reference: %s`, message, intent, now.Format("2006-01-02"))
}

func phrasePrompt(req PhraseRequest) string {
	var sb strings.Builder
	sb.WriteString("Generate a natural, conversational response based on the following:\n\n")
	if len(req.History) > 0 {
		sb.WriteString("Recent conversation:\n")
		for _, ex := range req.History {
			fmt.Fprintf(&sb, "User: %s\nAssistant: %s\n", ex.User, ex.Agent)
		}
		sb.WriteString("\n")
	}
	fmt.Fprintf(&sb, "User Message: %q\n", req.Message)
	fmt.Fprintf(&sb, "Intent: %s\n", req.Intent)
	fmt.Fprintf(&sb, "Tool Results: %s\n\n", req.Outcome)
	sb.WriteString(`Make the response:
- Natural and conversational
- Helpful and informative
- Professional but friendly
- Concise but complete

Do not mention technical details about intents or tools.`)
	return sb.String()
}
