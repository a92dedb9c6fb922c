package prompt

// roleDefinitions are the persona preambles prepended to slot prompts.
var roleDefinitions = map[string]string{
	"market_analyst": `You are a senior Market Analyst. You research markets, size opportunities,
identify user personas and pain points, and analyze competitors. You ground every
claim in observable market behavior and state your assumptions explicitly.`,

	"financial_modeler": `You are a startup Financial Modeler. You build pragmatic revenue projections,
unit economics, burn rate estimates, and funding requirement analyses. You prefer
ranges over false precision and always state the assumptions behind each number.`,

	"prd_generator": `You are a Product Manager writing specification documents. You translate product
briefs into functional and non-functional requirements, user stories with
acceptance criteria, and prioritized feature lists. You write precise, testable
requirements.`,

	"architect": `You are a pragmatic Software Architect. You design systems that a small team can
actually build: clear component boundaries, boring technology where possible,
and explicit trade-offs. You include data models and API sketches.`,

	"ux_designer": `You are a UX Designer. You map user journeys, describe wireframes in text, and
define design systems (color, typography, spacing, components) that a developer
can implement without a design tool.`,

	"sprint_planner": `You are an Engineering Lead planning delivery. You break work into sprints with
realistic scope, define testing strategy, and write deployment runbooks that an
on-call engineer can follow.`,
}

// builtinTemplates are the per-slot prompt templates. Each template
// receives a Data value; prior documents are available through the
// Doc helper. Overrides placed in the prompt directory replace these
// at runtime.
var builtinTemplates = map[string]string{
	"product_brief.md": `{{role "market_analyst"}}

**Objective:**
Create a **Product Brief** for the following startup idea.

**Idea:**
{{.Idea}}

**Structure:**
# Product Brief

## 1. Problem Statement
[What problem exists, for whom, and why now]

## 2. Market Opportunity
[Market size, growth rate, relevant trends]

## 3. Target Users & Personas
[2-3 personas with goals and pain points]

## 4. Competitive Landscape
[Top competitors, their strengths and weaknesses]

## 5. Value Proposition
[Why this product wins]

---
**Agent Guidance:**
The PRD Generator will turn this brief into requirements. Keep personas and
pain points concrete enough to derive user stories from.`,

	"financial_model.md": `{{role "financial_modeler"}}

**Objective:**
Create a **Financial Model** document based on the Product Brief.

**Idea:**
{{.Idea}}

**Input - Product Brief:**
{{.Doc "product_brief.md"}}

**Structure:**
# Financial Model

## 1. Revenue Model
[Pricing, revenue streams]

## 2. Unit Economics
[CAC, LTV, margin assumptions]

## 3. Projections (3 years)
[Yearly revenue/cost ranges with assumptions]

## 4. Burn Rate & Runway
[Team cost, infrastructure cost]

## 5. Funding Requirements
[How much, for what milestones]

---
**Agent Guidance:**
State every assumption; investors will challenge each number.`,

	"prd.md": `{{role "prd_generator"}}

**Objective:**
Create a comprehensive **Product Requirements Document (PRD)** based on the
Product Brief. Follow the Spec Kit methodology (Goals, Functional Requirements,
User Stories, Acceptance Criteria).

**Input - Product Brief:**
{{.Doc "product_brief.md"}}

**Structure:**
# Product Requirements Document (PRD)

## 1. Goals & Objectives

## 2. Functional Requirements
### FR-001: [Feature Name]
**Description:** [Detailed description]
**User Story:** As a [persona], I want [action] so that [benefit].
**Acceptance Criteria:**
- [ ] [Criterion 1]
- [ ] [Criterion 2]
**Priority:** [Must/Should/Could]

[Repeat for 5-7 core features]

## 3. Non-Functional Requirements (NFRs)
[Performance, Security, Scalability, Accessibility]

## 4. User Stories (Epics)

## 5. Success Metrics

---
**Agent Guidance:**
Next step is Architecture. Ensure all NFRs are feasible with standard web
technologies.`,

	"tech_spec.md": `{{role "prd_generator"}}

**Objective:**
Create a **Technical Plan** based on the PRD. Focus on HOW the requirements
will be met.

**Input - PRD:**
{{.Doc "prd.md"}}

**Structure:**
# Technical Plan

## 1. System Overview
## 2. Technology Choices
- **Frontend:** [Choice] - [Justification]
- **Backend:** [Choice] - [Justification]
- **Database:** [Choice] - [Justification]
## 3. API Strategy
## 4. Data Model (High Level)
## 5. Security & Compliance

---
**Agent Guidance:**
The Architect will use this to design the detailed system architecture.`,

	"feature_prioritization.md": `{{role "prd_generator"}}

**Objective:**
Prioritize the features in the PRD using RICE scoring and MoSCoW buckets.

**Input - PRD:**
{{.Doc "prd.md"}}

**Structure:**
# Feature Prioritization

## 1. RICE Scores
| Feature | Reach | Impact | Confidence | Effort | Score |

## 2. MoSCoW Buckets
[Must / Should / Could / Won't for v1]

## 3. Value vs. Effort Matrix
[Quick wins, big bets, fill-ins, time sinks]

## 4. Recommended MVP Cut
[The smallest coherent product]`,

	"competitive_analysis.md": `{{role "market_analyst"}}

**Objective:**
Create a feature-by-feature **Competitive Analysis** based on the Product Brief.

**Input - Product Brief:**
{{.Doc "product_brief.md"}}

**Structure:**
# Competitive Analysis

## 1. Competitor Profiles
[For each competitor: positioning, pricing, strengths, weaknesses]

## 2. Feature Comparison Matrix
| Feature | Us | Competitor A | Competitor B |

## 3. Differentiation Strategy
[Where to compete, where not to]`,

	"architecture.md": `{{role "architect"}}

**Objective:**
Design the **System Architecture** that satisfies the PRD and Technical Plan.

**Input - PRD:**
{{.Doc "prd.md"}}

**Input - Technical Plan:**
{{.Doc "tech_spec.md"}}

**Structure:**
# System Architecture

## 1. Architecture Overview
[Components and how they interact]

## 2. Tech Stack
[Concrete choices with versions where it matters]

## 3. Database Schema
[Key tables/collections with fields]

## 4. API Design
[Endpoints with methods, paths, payloads]

## 5. Infrastructure & Scaling
[Hosting, caching, background jobs]

---
**Agent Guidance:**
The Sprint Planner will derive the roadmap from these components.`,

	"user_flow.md": `{{role "ux_designer"}}

**Objective:**
Map the **User Flows** for the core features in the PRD.

**Input - PRD:**
{{.Doc "prd.md"}}

**Structure:**
# User Flows

## 1. Primary Journeys
[Step-by-step flow per core feature]

## 2. Wireframe Descriptions
[Screen-by-screen, in text]

## 3. Edge Cases & Error States
[Empty states, failures, permissions]`,

	"design_system.md": `{{role "ux_designer"}}

**Objective:**
Define a **Design System** suitable for this product and its audience.

**Input - Product Brief:**
{{.Doc "product_brief.md"}}

**Structure:**
# Design System

## 1. Brand Direction
## 2. Color Palette
[Hex values with usage]
## 3. Typography
## 4. Spacing & Layout
## 5. Component Library
[Buttons, forms, cards, navigation]`,

	"roadmap.md": `{{role "sprint_planner"}}

**Objective:**
Create an implementation **Roadmap** from the PRD and Architecture.

**Input - PRD:**
{{.Doc "prd.md"}}

**Input - Architecture:**
{{.Doc "architecture.md"}}

**Structure:**
# Roadmap

## 1. Milestones
## 2. Sprint Breakdown
[2-week sprints with concrete deliverables]
## 3. Dependencies & Risks
## 4. Launch Criteria`,

	"testing_plan.md": `{{role "sprint_planner"}}

**Objective:**
Create a **Testing Plan** covering the PRD's acceptance criteria.

**Input - PRD:**
{{.Doc "prd.md"}}

**Structure:**
# Testing Plan

## 1. Test Strategy
[Unit, integration, e2e split]
## 2. Critical Test Cases
[Derived from acceptance criteria]
## 3. Quality Metrics
## 4. QA Process`,

	"deployment_guide.md": `{{role "sprint_planner"}}

**Objective:**
Write a **Deployment Guide** for the system described in the Architecture.

**Input - Architecture:**
{{.Doc "architecture.md"}}

**Structure:**
# Deployment Guide

## 1. Infrastructure Setup
## 2. CI/CD Pipeline
## 3. Environment Configuration
## 4. Monitoring & Alerting
## 5. Rollback Procedure`,
}
