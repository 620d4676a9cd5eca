package panels

import "fmt"

var panelOrder = []string{
	"explain", "debug", "refactor", "seo", "audit",
	"analytics", "personalization", "feedback", "deployment", "tutorial",
}

func registry() map[string]panel {
	return map[string]panel{
		"explain": {
			needsCode: true,
			prompt: func(req Request) string {
				return fmt.Sprintf(`You are a senior software engineer and technical educator. Analyze this code comprehensively:

%s

Provide a detailed, structured analysis:
1. **Overview**: Clear explanation of purpose and functionality
2. **Architecture & Components**: Break down structure and key parts with technical depth
3. **Logic Breakdown**: Detailed explanation of algorithms, data flow, and complex operations
4. **Code Quality Assessment**: Identify bugs, anti-patterns, performance bottlenecks, security issues
5. **Optimization Opportunities**: Specific, actionable improvements with code examples
6. **Best Practices**: Modern standards, accessibility, maintainability recommendations
7. **Learning Points**: Key takeaways and advanced concepts demonstrated

Use professional yet accessible language. Include specific examples and code snippets where helpful.`, fencedHTML(req.Code))
			},
		},
		"debug": {
			needsCode:   true,
			needsDetail: true,
			detailName:  "error message",
			prompt: func(req Request) string {
				return fmt.Sprintf(`You are an expert debugging specialist and senior software engineer. Perform a comprehensive error analysis:

ERROR DETECTED: %s

FULL CODE CONTEXT:
%s

Provide a detailed debugging report covering: what the error means technically and why it occurs, the exact line or section causing it and the chain of events leading to it, numbered step-by-step fix instructions, the full corrected code section with comments explaining the fix, prevention strategies, and better architectural alternatives.

Provide professional, production-ready solutions with detailed explanations.`, req.Detail, fencedHTML(req.Code))
			},
			apply: func(req Request) string {
				return fmt.Sprintf(`There is an error in the code: "%s". Please fix this error and output the corrected complete HTML code.`, req.Detail)
			},
		},
		"refactor": {
			needsCode: true,
			prompt: func(req Request) string {
				return fmt.Sprintf(`You are a senior software architect and code quality expert. Analyze this code and provide comprehensive refactoring recommendations:

%s

Provide a detailed analysis covering: code quality assessment (structure, maintainability, performance bottlenecks), critical issues (anti-patterns, security vulnerabilities, accessibility problems, browser compatibility), refactoring recommendations with before/after code examples and expected impact, architecture improvements (component structure, CSS organization, JavaScript optimization), best practices (semantic HTML5, modern CSS, ES6+ patterns), and a priority-ordered action plan.

Use markdown formatting with code blocks.`, fencedHTML(req.Code))
			},
			apply: func(req Request) string {
				return "Refactor the code following modern best practices: improve structure, fix anti-patterns, and optimize performance while keeping all functionality intact. Output the complete refactored HTML code."
			},
		},
		"seo": {
			needsCode: true,
			prompt: func(req Request) string {
				return fmt.Sprintf(`You are an SEO specialist and web performance expert. Analyze this website code for SEO optimization:

%s

Provide a comprehensive SEO analysis: an SEO score (0-100) with breakdown by category, critical issues (title tags, meta descriptions, heading hierarchy, Open Graph tags, structured data), technical SEO (performance, mobile-friendliness, image alt tags, semantic HTML), content SEO, recommended optimizations with exact code to add, complete meta tag implementations (essential, Open Graph, Twitter Card, Schema.org), and performance recommendations for Core Web Vitals.

Format with markdown, use checkmarks for good, crosses for missing, warnings for needs improvement.`, fencedHTML(req.Code))
			},
			apply: func(req Request) string {
				return "Apply the SEO recommendations: add proper meta tags, Open Graph tags, structured data, and fix the heading hierarchy while keeping all functionality intact. Output the complete optimized HTML code."
			},
		},
		"audit": {
			needsCode: true,
			prompt: func(req Request) string {
				return fmt.Sprintf(`You are a senior web development auditor and performance expert. Perform a comprehensive audit of this website code:

%s

Provide a detailed audit report: an overall score out of 100, then per-category findings for performance, accessibility, best practices, and code quality, each with concrete issues found and exact fixes. Close with a prioritized remediation list.

Use markdown formatting with code blocks.`, fencedHTML(req.Code))
			},
		},
		"analytics": {
			needsCode: true,
			prompt: func(req Request) string {
				return fmt.Sprintf(`You are a senior data analyst and conversion optimization expert. Analyze this website and provide AI-powered analytics insights:

%s

Generate a comprehensive analytics report: an executive summary, predicted engagement patterns and drop-off points, conversion funnel analysis, user behavior insights, and concrete A/B test suggestions with expected impact.

Use markdown formatting.`, fencedHTML(req.Code))
			},
		},
		"personalization": {
			needsDetail: true,
			detailName:  "target audience",
			prompt: func(req Request) string {
				return fmt.Sprintf(`Generate AI-powered personalization code for a website targeting %s visitors.

Create JavaScript code that:
1. Detects visitor type using localStorage and cookies
2. Dynamically personalizes content based on behavior
3. Adjusts headlines, images, and CTAs
4. Tracks engagement metrics
5. Uses smooth animations for content changes

Include these personalization strategies:
- First-time visitors: Welcome message, product highlights, explainer content
- Returning users: "Welcome back", personalized recommendations, saved progress
- Engaged users: Advanced features, exclusive content, loyalty rewards
- Converting users: Urgency messaging, testimonials, limited-time offers

Output complete, production-ready JavaScript code with visitor detection logic, content personalization functions, dynamic text/image replacement, CTA optimization, and analytics tracking.

Format as a complete <script> tag that can be inserted into HTML.`, req.Detail)
			},
			apply: func(req Request) string {
				return fmt.Sprintf("Add the personalization script targeting %s visitors to the website, keeping all existing functionality intact. Output the complete HTML code.", req.Detail)
			},
		},
		"feedback": {
			needsDetail: true,
			detailName:  "feedback text",
			prompt: func(req Request) string {
				return fmt.Sprintf(`You are an expert UX researcher and product analyst. Analyze this user feedback and provide actionable insights:

USER FEEDBACK:
%s

Provide a comprehensive analysis: overall sentiment with confidence, key themes ranked by frequency, pain points and delights, prioritized recommendations mapped to concrete website changes, and suggested copy or design adjustments.

Use markdown formatting.`, req.Detail)
			},
		},
		"deployment": {
			needsCode: true,
			prompt: func(req Request) string {
				return fmt.Sprintf(`You are a deployment and DevOps specialist. Assess this website code for production readiness:

%s

Provide a deployment readiness report: blockers that must be fixed before going live, hosting recommendations for a static single-page site, a minimal CI pipeline outline, caching and compression guidance, and a pre-launch checklist.

Use markdown formatting.`, fencedHTML(req.Code))
			},
		},
		"tutorial": {
			needsDetail: true,
			detailName:  "template name",
			prompt:      tutorialPrompt,
			decode:      decodeTutorial,
		},
	}
}

func fencedHTML(code string) string {
	return "```html\n" + code + "\n```"
}
