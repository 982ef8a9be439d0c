package config

import "github.com/spf13/viper"

// Names of the JQL templates the report relies on.
const (
	TemplateAllTickets          = "all_tickets"
	TemplateP1Tickets           = "p1_tickets"
	TemplateUnclassifiedTickets = "unclassified_tickets"
	TemplateBoardTotal          = "isd_board_total"
	TemplateBoardUntriaged      = "isd_board_untriaged"
	TemplateClusterAlerts       = "cluster_alerts"
	TemplateNamespaceAlerts     = "namespace_alerts"
)

const triageField = `"NOC Representative[User Picker (single user)]"`

var defaultTemplates = map[string]any{
	TemplateAllTickets: `project = {project} AND created >= -{days}d ORDER BY createdDate DESC`,
	TemplateP1Tickets:  `project = {project} AND priority = Highest AND created >= -{days}d ORDER BY createdDate DESC`,
	TemplateUnclassifiedTickets: `project = {project} AND created >= -{days}d ` +
		`AND priority NOT IN (Highest, High, Medium) ORDER BY createdDate DESC`,
	TemplateBoardTotal: `project = {project} AND ` + triageField + ` != EMPTY ` +
		`AND created >= -{days}d ORDER BY createdDate DESC`,
	TemplateBoardUntriaged: `project = {project} ` +
		`AND (summary ~ "Password reset request" OR summary ~ "Team Change" ` +
		`OR summary ~ "Outage" OR summary ~ "Troubleshooting" ` +
		`OR summary ~ "Wiz finding" OR summary ~ "Triggered on") ` +
		`AND type IN ("Service Request", "Service Request with Approvals", Incident) ` +
		`AND ` + triageField + ` = EMPTY ` +
		`AND created >= -{days}d ORDER BY createdDate DESC`,
	TemplateClusterAlerts: `project = {project} AND text ~ "{cluster}" ` +
		`AND ` + triageField + ` = EMPTY AND created >= -{days}d ORDER BY createdDate DESC`,
	TemplateNamespaceAlerts: `project = {project} AND text ~ "{namespace}" ` +
		`AND ` + triageField + ` = EMPTY AND created >= -{days}d ORDER BY createdDate DESC`,
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("project", "ISD")
	v.SetDefault("report_days", 7)
	v.SetDefault("page_size", 50)
	v.SetDefault("request_timeout", 10)
	v.SetDefault("log_level", "info")

	v.SetDefault("cache.enabled", false)
	v.SetDefault("cache.ttl_seconds", 3600)

	v.SetDefault("report.title", "Weekly Operations Report")
	v.SetDefault("report.output_dir", "reports")
	v.SetDefault("report.weeks", 5)
	v.SetDefault("report.week_days", 7)

	v.SetDefault("confluence.space", "ECOMM")
	v.SetDefault("confluence.postmortem_parent", "14745973")
	v.SetDefault("confluence.limit", 50)

	v.SetDefault("rules.clusters", []string{
		"apps-prod-01",
		"ecomm-prod-scus1",
		"de-airflow-production",
		"de-airflow-staging",
		"airflow-prod-01",
		"cdp-production",
		"cdp-staging",
		"Staging CDP",
		"Heartbeat",
	})
	v.SetDefault("rules.namespaces", []string{
		"cert-manager",
		"airflow-dpi",
		"simple-machine",
		"pepdirect",
		"wiz",
	})
	v.SetDefault("rules.cluster_pattern", `(?i)(?:cluster|k8s|kubernetes)[\s-]+([a-zA-Z0-9-]+)`)
	v.SetDefault("rules.namespace_pattern", `(?i)(?:namespace|ns)[\s-]+([a-zA-Z0-9-]+)`)
	v.SetDefault("rules.priority_map", map[string]any{
		"Highest":    "P1",
		"High":       "P2",
		"Medium":     "P3",
		"Low":        "P4",
		"Unassigned": "Unknown",
	})
	v.SetDefault("rules.cancelled_keywords", []string{"cancelled", "resolved", "closed"})
	v.SetDefault("rules.excluded_statuses", []string{"cancelled"})
	v.SetDefault("rules.duplicate_assignee", "")
	v.SetDefault("rules.ignored_authors", []string{"Automation for Jira"})
	v.SetDefault("rules.user_request_types", []string{
		"Team Change Request",
		"Change Request",
		"Password Reset Request",
		"User Provisioning Request",
	})
	v.SetDefault("rules.alert_keywords", []map[string]any{
		{"match": "troubleshooting", "label": "Troubleshooting"},
		{"match": "outage", "label": "Outage Reporting"},
		{"match": "wiz finding", "label": "Wiz findings"},
	})

	v.SetDefault("jql_templates", defaultTemplates)
}
