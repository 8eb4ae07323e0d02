package render

// DefaultTemplateVersion identifies the built-in legal template seeded onto
// every new contract. The template travels on the contract itself afterwards;
// later releases never touch in-flight negotiations.
const DefaultTemplateVersion = 1

// DefaultTemplateText is the versioned built-in legal text. It references only
// tokens registered in the embedded manifest; TestDefaultTemplateValidates
// guards that.
const DefaultTemplateText = `Influencer Collaboration Agreement for {{Campaign.Title}}

This Influencer Collaboration Agreement (the "Agreement") is entered into as of {{Contract.EffectiveDate}} ({{Contract.EffectiveTimezone}}) by and between {{Brand.CompanyName}}, with its registered address at {{Brand.LegalAddress}} (the "Brand"), {{Influencer.LegalName}} of {{Influencer.Address}} (the "Influencer"), and CollabGlam Inc. (the "Platform"), which facilitates this engagement.

1. Engagement
The Brand engages the Influencer to create and publish the content described in Schedule A on the following platforms: {{Campaign.Platforms}}. The campaign go-live window is {{Campaign.GoLiveWindow}}.

2. Compensation
a. The Brand shall pay the Influencer a total fee of {{Fee.Amount (gross, before platform fee)}}.
b. The Platform retains a service fee of {{Fee.PlatformPercent}} of the gross fee.
c. Payment falls due {{Fee.PaymentTermsDays}} days after the final deliverable is approved.

3. Content and Approval
a. Where a draft is required for a deliverable, the Influencer shall submit it by the draft due date listed in Schedule A.
b. The Brand may request revisions up to the per-deliverable revision limit.
c. Content must carry all listed disclosures, including:
- Platform-mandated advertising disclosures
- Any disclosure tags listed per deliverable in Schedule A

4. Usage Rights
The usage rights granted to the Brand are set out in Schedule B. Rights not expressly granted remain with the Influencer.

5. Governing Law
This Agreement is governed by the laws of {{Contract.Jurisdiction}}.

Schedule A – Deliverables
[[Tables.Deliverables]]

Schedule B – Usage Rights
[[Tables.Usage]]

Schedule C – Influencer Acceptance Details
The following details were supplied by the Influencer upon acceptance.

[[Tables.InfluencerAcceptance]]

Signatures
`
