package content

import (
	"hash/fnv"

	"github.com/bilgisen/feedpress/internal/models"
)

// Quote is an attributed pull quote
type Quote struct {
	Text   string
	Author string
}

// Metric is a headline statistic shown as a value/label pair
type Metric struct {
	Value string
	Label string
}

// Phase is one step of an implementation strategy
type Phase struct {
	Title       string
	Description string
}

// Narrative holds the framing paragraphs used to pad short entries
type Narrative struct {
	Challenge string
	Solution  string
	Success   string
	Outlook   string
}

// CategoryTemplate is the boilerplate used to expand posts of one category
type CategoryTemplate struct {
	Label        string
	Intro        string
	DefaultImage string

	TakeawaysTitle  string
	InsightTitle    string
	StrategyTitle   string
	ConclusionTitle string

	Concepts   []string
	Phases     []Phase
	Quotes     []Quote
	Metrics    []Metric
	Narrative  Narrative
	Insight    string
	Conclusion string
}

// CategoryTemplateRepository maps categories to templates. Unknown categories resolve to
// the default entry.
type CategoryTemplateRepository struct {
	entries  map[models.Category]CategoryTemplate
	fallback CategoryTemplate
}

// NewCategoryTemplateRepository returns the built-in template table
func NewCategoryTemplateRepository() *CategoryTemplateRepository {
	return &CategoryTemplateRepository{
		entries:  builtinTemplates,
		fallback: defaultTemplate,
	}
}

// Lookup returns the template for category, or the default template
func (r *CategoryTemplateRepository) Lookup(category models.Category) CategoryTemplate {
	if t, ok := r.entries[category]; ok {
		return t
	}
	return r.fallback
}

// Default returns the fallback template
func (r *CategoryTemplateRepository) Default() CategoryTemplate {
	return r.fallback
}

// QuoteFor picks a quote from t. The choice depends only on the title.
func (t CategoryTemplate) QuoteFor(title string) Quote {
	if len(t.Quotes) == 0 {
		return Quote{}
	}
	h := fnv.New32a()
	h.Write([]byte(title))
	return t.Quotes[h.Sum32()%uint32(len(t.Quotes))]
}

var defaultTemplate = CategoryTemplate{
	Label:           "Insights",
	Intro:           "A closer look at what this development means and how to put it to work.",
	DefaultImage:    "https://images.unsplash.com/photo-1499750310107-5fef28a66643?w=1200",
	TakeawaysTitle:  "Key Takeaways",
	InsightTitle:    "Industry Insight",
	StrategyTitle:   "Implementation Strategy",
	ConclusionTitle: "Conclusion",
	Concepts:        []string{"Clear goals", "Measured experiments", "Continuous learning"},
	Phases: []Phase{
		{Title: "Assess", Description: "Review current practice and identify where the idea fits."},
		{Title: "Pilot", Description: "Try it with a small team and a short feedback loop."},
		{Title: "Scale", Description: "Roll out what worked and document what did not."},
	},
	Quotes: []Quote{
		{Text: "The best way to predict the future is to create it.", Author: "Peter Drucker"},
		{Text: "What gets measured gets managed.", Author: "Peter Drucker"},
	},
	Metrics: []Metric{
		{Value: "3x", Label: "faster iteration with a clear process"},
		{Value: "60%", Label: "of teams report better focus"},
	},
	Narrative: Narrative{
		Challenge: "Teams are flooded with new tools and ideas but short on time to evaluate them.",
		Solution:  "Focusing on one well-understood change at a time makes adoption manageable.",
		Success:   "Organisations that adopt changes deliberately see results that last.",
		Outlook:   "Expect the pace of change to keep rising, which makes a repeatable approach more valuable.",
	},
	Insight:    "Across industries, the organisations that benefit most are the ones that treat new practices as experiments with clear success criteria.",
	Conclusion: "Start small, measure honestly and build on what works.",
}

var builtinTemplates = map[models.Category]CategoryTemplate{
	models.CategoryAITools: {
		Label:           "AI Tools",
		Intro:           "AI tooling keeps moving fast. Here is what this update means for everyday work.",
		DefaultImage:    "https://images.unsplash.com/photo-1677442136019-21780ecad995?w=1200",
		TakeawaysTitle:  "What You Need to Know",
		InsightTitle:    "Industry Insight",
		StrategyTitle:   "Adopting the Tool",
		ConclusionTitle: "Bottom Line",
		Concepts:        []string{"Automation", "Augmented decision making", "Workflow integration", "Responsible use"},
		Phases: []Phase{
			{Title: "Evaluate", Description: "Map the tool against tasks your team repeats every week."},
			{Title: "Integrate", Description: "Connect it to existing systems instead of adding another silo."},
			{Title: "Govern", Description: "Agree on review rules for AI generated output."},
			{Title: "Measure", Description: "Track time saved and error rates before and after."},
		},
		Quotes: []Quote{
			{Text: "AI will not replace people, but people who use AI will replace people who don't.", Author: "Ginni Rometty"},
			{Text: "The question is not whether to use AI but how to use it well.", Author: "Fei-Fei Li"},
			{Text: "Artificial intelligence is the new electricity.", Author: "Andrew Ng"},
		},
		Metrics: []Metric{
			{Value: "40%", Label: "average time saved on routine tasks"},
			{Value: "77%", Label: "of companies exploring AI adoption"},
			{Value: "2.5x", Label: "productivity gain reported by early adopters"},
		},
		Narrative: Narrative{
			Challenge: "Knowing which AI tool is worth adopting is harder than ever as new products launch weekly.",
			Solution:  "Tools that plug into existing workflows deliver value without forcing teams to relearn everything.",
			Success:   "Early adopters report hours saved every week on drafting, research and reporting.",
			Outlook:   "As models improve, expect these tools to move from assistants to collaborators.",
		},
		Insight:    "AI tooling is consolidating around a few platforms, and integration quality now matters more than raw model capability.",
		Conclusion: "Pick tools that fit how your team already works and measure the results.",
	},
	models.CategoryAIPrompts: {
		Label:           "AI Prompts",
		Intro:           "Better prompts produce better answers. This piece shows how.",
		DefaultImage:    "https://images.unsplash.com/photo-1620712943543-bcc4688e7485?w=1200",
		TakeawaysTitle:  "Prompting Principles",
		InsightTitle:    "Why Prompting Matters",
		StrategyTitle:   "Building Your Prompt Library",
		ConclusionTitle: "Final Thoughts",
		Concepts:        []string{"Context setting", "Role prompting", "Iterative refinement", "Output constraints"},
		Phases: []Phase{
			{Title: "Define", Description: "State the goal, audience and format you expect."},
			{Title: "Draft", Description: "Write a first prompt with examples of good output."},
			{Title: "Refine", Description: "Compare results and tighten instructions that were ignored."},
			{Title: "Reuse", Description: "Save prompts that work as shared templates."},
		},
		Quotes: []Quote{
			{Text: "A well-posed question is half the answer.", Author: "Aristotle"},
			{Text: "Clarity of instruction is clarity of thought.", Author: "Anonymous"},
		},
		Metrics: []Metric{
			{Value: "5x", Label: "more usable output with structured prompts"},
			{Value: "60%", Label: "fewer follow-up corrections"},
		},
		Narrative: Narrative{
			Challenge: "Vague prompts lead to generic answers that need heavy editing.",
			Solution:  "Giving the model a role, context and a clear format changes the quality of the result.",
			Success:   "Teams with shared prompt libraries get consistent output across people and projects.",
			Outlook:   "Prompting is becoming a core literacy, much like search was a generation ago.",
		},
		Insight:    "Prompt quality has become a differentiator: the same model gives very different value depending on how it is asked.",
		Conclusion: "Treat prompts as reusable assets and keep improving them.",
	},
	models.CategoryProductivity: {
		Label:           "Productivity",
		Intro:           "Small changes in how you work can add up to big gains.",
		DefaultImage:    "https://images.unsplash.com/photo-1484480974693-6ca0a78fb36b?w=1200",
		TakeawaysTitle:  "Key Takeaways",
		InsightTitle:    "The Bigger Picture",
		StrategyTitle:   "Putting It Into Practice",
		ConclusionTitle: "Conclusion",
		Concepts:        []string{"Deep work", "Time blocking", "Energy management", "Fewer priorities"},
		Phases: []Phase{
			{Title: "Audit", Description: "Track a week of work to see where time really goes."},
			{Title: "Protect", Description: "Block focus time and defend it like a meeting."},
			{Title: "Simplify", Description: "Drop or delegate tasks that do not move goals forward."},
		},
		Quotes: []Quote{
			{Text: "Focus is a matter of deciding what things you're not going to do.", Author: "John Carmack"},
			{Text: "Until we can manage time, we can manage nothing else.", Author: "Peter Drucker"},
			{Text: "It's not always that we need to do more but rather that we need to focus on less.", Author: "Nathan W. Morris"},
		},
		Metrics: []Metric{
			{Value: "23 min", Label: "to refocus after an interruption"},
			{Value: "2.1 h", Label: "lost daily to distractions"},
			{Value: "25%", Label: "output gain from focus blocks"},
		},
		Narrative: Narrative{
			Challenge: "Constant notifications and meetings leave little room for focused work.",
			Solution:  "Deliberately structuring the day around focus makes the important work happen first.",
			Success:   "People who protect focus time report finishing more with less stress.",
			Outlook:   "As work stays hybrid, personal systems matter more than office routines.",
		},
		Insight:    "Productivity research keeps pointing to the same lever: fewer, deeper work sessions beat constant multitasking.",
		Conclusion: "Choose one habit from this piece and try it for a week.",
	},
	models.CategoryGettingThingsDone: {
		Label:           "Getting Things Done",
		Intro:           "Capture, clarify, organise, reflect, engage. Here is how this fits in.",
		DefaultImage:    "https://images.unsplash.com/photo-1506784983877-45594efa4cbe?w=1200",
		TakeawaysTitle:  "Core Ideas",
		InsightTitle:    "Why It Works",
		StrategyTitle:   "Step by Step",
		ConclusionTitle: "Wrapping Up",
		Concepts:        []string{"Capture everything", "Next actions", "Weekly review", "Trusted system"},
		Phases: []Phase{
			{Title: "Capture", Description: "Collect every open loop in one inbox."},
			{Title: "Clarify", Description: "Decide the next physical action for each item."},
			{Title: "Organise", Description: "Put actions in lists by context and project."},
			{Title: "Review", Description: "Walk through the system every week."},
			{Title: "Engage", Description: "Pick work from the lists with confidence."},
		},
		Quotes: []Quote{
			{Text: "Your mind is for having ideas, not holding them.", Author: "David Allen"},
			{Text: "You can do anything, but not everything.", Author: "David Allen"},
		},
		Metrics: []Metric{
			{Value: "1 inbox", Label: "for every commitment"},
			{Value: "2 min", Label: "rule for quick actions"},
		},
		Narrative: Narrative{
			Challenge: "Open loops pile up and keep pulling attention away from the task at hand.",
			Solution:  "Getting commitments out of your head and into a trusted system frees up attention.",
			Success:   "Practitioners describe a calmer, more deliberate way of working.",
			Outlook:   "Digital tools make the method easier to keep up, but the habits still matter most.",
		},
		Insight:    "The method endures because it addresses attention, not just task lists.",
		Conclusion: "Start with a full capture and schedule your first weekly review.",
	},
	models.CategoryBusinessContributions: {
		Label:           "Business",
		Intro:           "What this means for teams, customers and the bottom line.",
		DefaultImage:    "https://images.unsplash.com/photo-1460925895917-afdab827c52f?w=1200",
		TakeawaysTitle:  "Business Takeaways",
		InsightTitle:    "Market Insight",
		StrategyTitle:   "Execution Plan",
		ConclusionTitle: "Conclusion",
		Concepts:        []string{"Customer value", "Operational efficiency", "Sustainable growth", "Team alignment"},
		Phases: []Phase{
			{Title: "Align", Description: "Tie the initiative to one measurable business goal."},
			{Title: "Invest", Description: "Fund a focused pilot with a clear owner."},
			{Title: "Expand", Description: "Scale once the pilot shows return on investment."},
		},
		Quotes: []Quote{
			{Text: "The purpose of a business is to create a customer.", Author: "Peter Drucker"},
			{Text: "Culture eats strategy for breakfast.", Author: "Peter Drucker"},
			{Text: "Your most unhappy customers are your greatest source of learning.", Author: "Bill Gates"},
		},
		Metrics: []Metric{
			{Value: "30%", Label: "cost reduction from process redesign"},
			{Value: "5x", Label: "cheaper to retain than acquire a customer"},
		},
		Narrative: Narrative{
			Challenge: "Businesses face pressure to grow while keeping costs under control.",
			Solution:  "Focusing on customer value guides which investments are worth making.",
			Success:   "Companies that align teams around a few goals outperform their peers.",
			Outlook:   "Expect efficiency and customer experience to remain the main competitive levers.",
		},
		Insight:    "Markets are rewarding companies that combine operational discipline with genuine customer focus.",
		Conclusion: "Translate the ideas here into one concrete initiative this quarter.",
	},
	models.CategoryPeopleContactNetworks: {
		Label:           "Networking",
		Intro:           "Relationships compound. Here is how to build them on purpose.",
		DefaultImage:    "https://images.unsplash.com/photo-1511632765486-a01980e01a18?w=1200",
		TakeawaysTitle:  "Key Takeaways",
		InsightTitle:    "Why Networks Matter",
		StrategyTitle:   "Building Your Network",
		ConclusionTitle: "Conclusion",
		Concepts:        []string{"Give first", "Weak ties", "Consistent follow-up", "Authenticity"},
		Phases: []Phase{
			{Title: "Map", Description: "List the people who matter to your goals today."},
			{Title: "Reach out", Description: "Reconnect with a useful note, not a request."},
			{Title: "Follow up", Description: "Keep a simple rhythm of check-ins."},
			{Title: "Introduce", Description: "Connect others who can help each other."},
		},
		Quotes: []Quote{
			{Text: "Your network is your net worth.", Author: "Porter Gale"},
			{Text: "The richest people in the world look for and build networks.", Author: "Robert Kiyosaki"},
		},
		Metrics: []Metric{
			{Value: "85%", Label: "of jobs filled through networking"},
			{Value: "3x", Label: "more opportunities from weak ties"},
		},
		Narrative: Narrative{
			Challenge: "Busy schedules make it easy to lose touch with valuable contacts.",
			Solution:  "A lightweight system for staying in touch keeps relationships warm.",
			Success:   "Professionals with active networks find opportunities before they are advertised.",
			Outlook:   "Online communities are making it easier to build relationships across borders.",
		},
		Insight:    "Research on weak ties shows that acquaintances, not close friends, are often the source of new opportunities.",
		Conclusion: "Send one thoughtful message today and make it a habit.",
	},
}
