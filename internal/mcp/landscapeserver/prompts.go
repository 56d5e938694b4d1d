package landscapeserver

import (
	"context"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/landscape-community/landscape-mcp/internal/landscape"
	"github.com/landscape-community/landscape-mcp/pkg/models"
)

// Prompt names.
const (
	PromptSystemHealthCheck     = "system_health_check"
	PromptPackageAudit          = "package_audit"
	PromptIncidentInvestigation = "incident_investigation"
	PromptCapacityPlanning      = "capacity_planning"
	PromptComplianceReport      = "compliance_report"
)

const promptFetchLimit = 100

type promptFunc func(ctx context.Context, args map[string]string) string

func (s *server) addPrompts(srv *mcp.Server) {
	prompts := []struct {
		prompt *mcp.Prompt
		fn     promptFunc
	}{
		{&mcp.Prompt{
			Name:        PromptSystemHealthCheck,
			Description: "Comprehensive infrastructure health analysis with recommendations",
			Arguments: []*mcp.PromptArgument{
				{Name: "environment", Description: "Infrastructure environment filter (production/staging/development/all)"},
				{Name: "severity", Description: "Alert severity filter (critical/warning/all)"},
			},
		}, s.systemHealthCheck},
		{&mcp.Prompt{
			Name:        PromptPackageAudit,
			Description: "Audit packages across infrastructure for security updates and compliance",
			Arguments: []*mcp.PromptArgument{
				{Name: "package_name", Description: "Specific package name to audit, or 'all' for all packages"},
				{Name: "severity", Description: "Filter by CVE severity level (critical/high/medium/all)"},
			},
		}, s.packageAudit},
		{&mcp.Prompt{
			Name:        PromptIncidentInvestigation,
			Description: "Investigate system incidents using activity logs and audit trails",
			Arguments: []*mcp.PromptArgument{
				{Name: "hostname", Description: "Affected machine hostname to investigate"},
				{Name: "timeframe", Description: "Hours to look back in activity logs (default: 24)"},
			},
		}, s.incidentInvestigation},
		{&mcp.Prompt{
			Name:        PromptCapacityPlanning,
			Description: "Analyze infrastructure capacity and growth trends for resource planning",
			Arguments: []*mcp.PromptArgument{
				{Name: "tag", Description: "Infrastructure segment/tag to analyze (e.g., production, database-tier)"},
			},
		}, s.capacityPlanning},
		{&mcp.Prompt{
			Name:        PromptComplianceReport,
			Description: "Generate compliance status report for audits and documentation",
			Arguments: []*mcp.PromptArgument{
				{Name: "standard", Description: "Compliance standard (SOC2/ISO27001/PCI-DSS/all)"},
			},
		}, s.complianceReport},
	}

	for _, p := range prompts {
		fn := p.fn
		srv.AddPrompt(p.prompt, func(ctx context.Context, req *mcp.GetPromptRequest) (*mcp.GetPromptResult, error) {
			var args map[string]string
			if req.Params != nil {
				args = req.Params.Arguments
			}
			return &mcp.GetPromptResult{
				Messages: []*mcp.PromptMessage{{
					Role:    "user",
					Content: &mcp.TextContent{Text: fn(ctx, args)},
				}},
			}, nil
		})
	}
}

// argOr returns args[key] when the caller supplied it, even if empty.
func argOr(args map[string]string, key, def string) string {
	if v, ok := args[key]; ok {
		return v
	}
	return def
}

// contextJSON renders fetched data for embedding in a prompt; empty data
// renders as an empty object.
func contextJSON[T any](items []T) string {
	if len(items) == 0 {
		return "{}"
	}
	return toJSON(items)
}

func (s *server) systemHealthCheck(ctx context.Context, args map[string]string) string {
	environment := argOr(args, "environment", "all")
	severity := argOr(args, "severity", "all")

	query := ""
	if environment != "all" {
		query = "tag:" + environment
	}

	var computersInfo, alertsInfo, offlineInfo string
	err := func() error {
		computers, err := s.source.GetComputers(ctx, landscape.ComputerQuery{Query: query, Limit: promptFetchLimit})
		if err != nil {
			return err
		}
		alerts, err := s.source.GetAlerts(ctx)
		if err != nil {
			return err
		}
		offline, err := s.source.GetNotPingingComputers(ctx, defaultOfflineMinutes, defaultOfflineLimit)
		if err != nil {
			return err
		}
		computersInfo, alertsInfo, offlineInfo = contextJSON(computers), contextJSON(alerts), contextJSON(offline)
		return nil
	}()
	if err != nil {
		computersInfo, alertsInfo, offlineInfo = "Error fetching data: "+err.Error(), "", ""
	}

	return fmt.Sprintf(`Analyze the health of the %[1]s infrastructure and provide detailed recommendations.

Focus on these areas:
1. **Machines Needing Reboot**: Identify systems requiring kernel updates or service restarts
2. **Active Alerts**: Review current system alerts (filtering by %[2]s severity if specified)
3. **Offline Systems**: Check for machines offline for more than 60 minutes
4. **Package Updates**: Assess overall patch/update status
5. **Infrastructure Overview**: Provide summary of total systems and their status

Current Infrastructure Data:
- Computers: %[3]s
- Alerts: %[4]s
- Offline Systems: %[5]s

Provide:
- Executive summary of infrastructure health
- Critical issues requiring immediate attention
- Medium-priority items for next maintenance window
- Long-term optimization recommendations
- Risk assessment and mitigation strategies`, environment, severity, computersInfo, alertsInfo, offlineInfo)
}

func (s *server) packageAudit(ctx context.Context, args map[string]string) string {
	packageName := argOr(args, "package_name", "all")
	severity := argOr(args, "severity", "all")

	var packagesInfo string
	packages, err := s.source.GetPackages(ctx, landscape.PackageQuery{
		Search: packageName,
		Query:  packageSearchAllQuery,
		Limit:  promptFetchLimit,
	})
	if err != nil {
		packagesInfo = "Error fetching packages: " + err.Error()
	} else {
		packagesInfo = contextJSON(packages)
	}

	return fmt.Sprintf(`Conduct a comprehensive security audit of installed packages in the infrastructure.

Scope:
- Package: %[1]s
- CVE Severity: %[2]s

Package Inventory Data:
%[3]s

Analysis Tasks:
1. **Security Updates Available**: Identify packages with available security updates
2. **CVE Impact**: List any known CVEs affecting installed versions
3. **Deprecation Status**: Check for deprecated or EOL packages
4. **Compliance**: Verify package versions align with organizational standards
5. **Risk Assessment**: Evaluate risk of current package versions

Deliverables:
- List of packages needing security updates (by criticality)
- Estimated impact of upgrades
- Recommended remediation timeline
- Rollback considerations
- Testing recommendations before deployment`, packageName, severity, packagesInfo)
}

func (s *server) incidentInvestigation(ctx context.Context, args map[string]string) string {
	const allSystems = "all systems"
	hostname := argOr(args, "hostname", allSystems)
	timeframe := argOr(args, "timeframe", "24")

	var activitiesInfo string
	if hostname != allSystems {
		result := s.activitiesForComputer(ctx, hostname, "", recentActivityLimit, 0)
		if activities, ok := result.([]models.Activity); ok {
			activitiesInfo = contextJSON(activities)
		} else {
			activitiesInfo = toJSON(result)
		}
	} else {
		activities, err := s.source.GetActivities(ctx, landscape.ActivityQuery{Limit: recentActivityLimit})
		if err != nil {
			activitiesInfo = "Error fetching activities: " + err.Error()
		} else {
			activitiesInfo = contextJSON(activities)
		}
	}

	return fmt.Sprintf(`Investigate system incident(s) using activity logs and audit trails.

Incident Scope:
- Target: %[1]s
- Timeframe: Last %[2]s hours
- Activity Logs:
%[3]s

Investigation Framework:
1. **Timeline Reconstruction**: Build chronological sequence of events
2. **Root Cause Analysis**: Identify what triggered the incident
3. **Impact Assessment**: Determine affected systems and scope
4. **Correlation Analysis**: Connect related events across systems
5. **Pattern Detection**: Identify if part of larger issue

Report Should Include:
- Detailed incident timeline with key events
- Root cause analysis with evidence
- Systems and services affected
- Data or security implications
- Corrective actions taken
- Preventive measures for future incidents
- Recommended monitoring/alerting improvements`, hostname, timeframe, activitiesInfo)
}

func (s *server) capacityPlanning(ctx context.Context, args map[string]string) string {
	const allInfrastructure = "all infrastructure"
	tag := argOr(args, "tag", allInfrastructure)

	query := ""
	if tag != allInfrastructure {
		query = "tag:" + tag
	}

	var computersInfo string
	computers, err := s.source.GetComputers(ctx, landscape.ComputerQuery{Query: query, Limit: promptFetchLimit})
	if err != nil {
		computersInfo = "Error fetching data: " + err.Error()
	} else {
		computersInfo = contextJSON(computers)
	}

	return fmt.Sprintf(`Analyze infrastructure capacity and forecast growth trends for resource planning.

Infrastructure Segment: %[1]s

Current Resource Inventory:
%[2]s

Analysis Areas:
1. **Current Utilization**: Assess current resource usage and capacity
2. **Growth Trends**: Analyze historical usage patterns (if available)
3. **Headroom Analysis**: Calculate available capacity for future workloads
4. **Scaling Recommendations**: Suggest when/how to add capacity
5. **Cost Optimization**: Identify cost-saving opportunities
6. **Technology Refresh**: Assess need for system upgrades

Capacity Report Should Provide:
- Current resource summary (CPUs, memory, storage, systems)
- Utilization metrics and trends
- Projected capacity needs for next 6, 12, and 24 months
- Recommended scaling strategy
- Timeline and cost estimates for expansion
- Risk assessment for capacity constraints
- Recommendations for load balancing or consolidation`, tag, computersInfo)
}

func (s *server) complianceReport(ctx context.Context, args map[string]string) string {
	standard := argOr(args, "standard", "all")

	var computersInfo, alertsInfo string
	err := func() error {
		computers, err := s.source.GetComputers(ctx, landscape.ComputerQuery{Limit: promptFetchLimit})
		if err != nil {
			return err
		}
		alerts, err := s.source.GetAlerts(ctx)
		if err != nil {
			return err
		}
		computersInfo, alertsInfo = contextJSON(computers), contextJSON(alerts)
		return nil
	}()
	if err != nil {
		computersInfo, alertsInfo = "Error fetching data: "+err.Error(), ""
	}

	return fmt.Sprintf(`Generate compliance status report for audits and regulatory documentation.

Compliance Standard(s): %[1]s

Infrastructure Baseline:
- Systems: %[2]s
- Alerts/Issues: %[3]s

Compliance Evaluation:
1. **Patch Management**: Verify systems are current with security updates
2. **System Hardening**: Check for security baselines and hardening
3. **Vulnerability Status**: Assess current vulnerability posture
4. **Monitoring & Logging**: Verify adequate audit logging is enabled
5. **Access Control**: Review system access policies and configurations
6. **Documentation**: Ensure security policies and procedures are documented

Compliance Report Structure:
- Executive Summary
- Compliance Status (Compliant/Non-Compliant/Partial)
- Current State Assessment
- Identified Gaps (if any)
- Remediation Plan and Timeline
- Risk Mitigation Strategies
- Evidence and Documentation Trail
- Recommended Ongoing Monitoring`, standard, computersInfo, alertsInfo)
}
