package service

import "contractpro/model"

// seedContracts returns the demo contract set loaded into the store at
// startup. Values mirror the production extraction output shape.
func seedContracts() []model.Contract {
	return []model.Contract{
		{
			ID:      "c1",
			Name:    "MSA 2025",
			Parties: "Microsoft & ABC Corp",
			Start:   "2023-01-01",
			Expiry:  "2025-12-31",
			Status:  model.StatusActive,
			Risk:    model.RiskMedium,
			Clauses: []model.Clause{
				{Title: "Termination", Summary: "90 days notice period required for contract termination.", Confidence: 0.82},
				{Title: "Liability Cap", Summary: "Total liability limited to 12 months' fees.", Confidence: 0.87},
				{Title: "Data Protection", Summary: "GDPR compliance required for all data processing.", Confidence: 0.91},
			},
			Insights: []model.Insight{
				{Risk: model.RiskHigh, Message: "Liability cap excludes data breach costs, creating potential exposure."},
				{Risk: model.RiskMedium, Message: "Contract auto-renews unless cancelled 60 days before expiry."},
				{Risk: model.RiskLow, Message: "Standard termination clause with adequate notice period."},
			},
			Evidence: []model.Evidence{
				{Source: "Section 12.2", Snippet: "Total liability shall be limited to the aggregate amount of fees paid in the twelve months preceding the claim.", Relevance: 0.91},
				{Source: "Section 8.1", Snippet: "Either party may terminate this agreement with ninety (90) days written notice.", Relevance: 0.88},
				{Source: "Section 15.3", Snippet: "This agreement shall automatically renew for successive one-year terms unless terminated.", Relevance: 0.85},
			},
		},
		{
			ID:      "c2",
			Name:    "Network Services Agreement",
			Parties: "TelNet & ABC Corp",
			Start:   "2024-01-01",
			Expiry:  "2025-10-10",
			Status:  model.StatusRenewalDue,
			Risk:    model.RiskHigh,
			Clauses: []model.Clause{
				{Title: "Service Level Agreement", Summary: "99.9% uptime guarantee with penalties for breaches.", Confidence: 0.94},
				{Title: "Force Majeure", Summary: "Standard force majeure clause with pandemic provisions.", Confidence: 0.76},
			},
			Insights: []model.Insight{
				{Risk: model.RiskHigh, Message: "No liability cap defined for service outages exceeding SLA."},
				{Risk: model.RiskMedium, Message: "Force majeure clause may not cover all cyber security incidents."},
			},
			Evidence: []model.Evidence{
				{Source: "Section 4.1", Snippet: "Provider guarantees 99.9% network availability measured monthly.", Relevance: 0.93},
				{Source: "Section 11.2", Snippet: "Force majeure events include acts of God, war, terrorism, and pandemic declarations.", Relevance: 0.78},
			},
		},
		{
			ID:      "c3",
			Name:    "Software License Agreement",
			Parties: "TechSoft Inc & ABC Corp",
			Start:   "2024-06-01",
			Expiry:  "2026-05-31",
			Status:  model.StatusActive,
			Risk:    model.RiskLow,
			Clauses: []model.Clause{
				{Title: "License Grant", Summary: "Non-exclusive license for internal business use only.", Confidence: 0.89},
				{Title: "Support & Maintenance", Summary: "24/7 support included with annual maintenance fee.", Confidence: 0.92},
			},
			Insights: []model.Insight{
				{Risk: model.RiskLow, Message: "Standard software license terms with reasonable restrictions."},
				{Risk: model.RiskMedium, Message: "Support response times not clearly defined for critical issues."},
			},
			Evidence: []model.Evidence{
				{Source: "Section 2.1", Snippet: "Licensor grants to Licensee a non-exclusive, non-transferable license to use the Software.", Relevance: 0.90},
			},
		},
		{
			ID:      "c4",
			Name:    "Consulting Services Contract",
			Parties: "Expert Consultants & ABC Corp",
			Start:   "2024-03-15",
			Expiry:  "2024-12-15",
			Status:  model.StatusActive,
			Risk:    model.RiskMedium,
			Clauses: []model.Clause{
				{Title: "Scope of Work", Summary: "IT infrastructure assessment and optimization recommendations.", Confidence: 0.85},
				{Title: "Payment Terms", Summary: "Monthly invoicing with 30-day payment terms.", Confidence: 0.91},
			},
			Insights: []model.Insight{
				{Risk: model.RiskMedium, Message: "Scope creep potential due to loosely defined deliverables."},
				{Risk: model.RiskLow, Message: "Standard payment terms with reasonable timeframes."},
			},
			Evidence: []model.Evidence{
				{Source: "Exhibit A", Snippet: "Consultant shall provide strategic recommendations for IT infrastructure optimization.", Relevance: 0.86},
			},
		},
		{
			ID:      "c5",
			Name:    "Cloud Storage Agreement",
			Parties: "CloudStore Pro & ABC Corp",
			Start:   "2023-09-01",
			Expiry:  "2024-08-31",
			Status:  model.StatusExpired,
			Risk:    model.RiskHigh,
			Clauses: []model.Clause{
				{Title: "Data Security", Summary: "End-to-end encryption with customer-managed keys.", Confidence: 0.88},
				{Title: "Data Retention", Summary: "90-day retention after account termination.", Confidence: 0.83},
			},
			Insights: []model.Insight{
				{Risk: model.RiskHigh, Message: "Contract has expired - immediate renewal required to maintain service."},
				{Risk: model.RiskMedium, Message: "Short data retention period may cause data loss if not renewed promptly."},
			},
			Evidence: []model.Evidence{
				{Source: "Section 7.3", Snippet: "All data will be permanently deleted 90 days after account termination.", Relevance: 0.95},
			},
		},
	}
}
