package job

import (
	"fmt"

	"github.com/hashicorp/hcl/v2/hclsimple"
	awerrors "github.com/posaune0423/aw-analyzer/pkg/errors"
)

// jobsFile is the top-level shape of an optional jobs.hcl file: a
// repeated "job" block naming the CEL rule that gates it and the
// notification it fires.
//
//	job "long-focus" {
//	  should_run   = "maxContinuousSeconds >= 7200.0"
//	  cooldown_ms  = 3600000
//	  notify_title = "Long focus streak"
//	  notify_body  = "Continuous work has crossed the threshold."
//	}
type jobsFile struct {
	Jobs []hclJobBlock `hcl:"job,block"`
}

type hclJobBlock struct {
	Name        string `hcl:"name,label"`
	ShouldRun   string `hcl:"should_run"`
	CooldownMs  int64  `hcl:"cooldown_ms,optional"`
	NotifyTitle string `hcl:"notify_title"`
	NotifyBody  string `hcl:"notify_body"`
}

// HCLJob is a Job whose ShouldRun predicate is a compiled CEL
// expression and whose notification text is fixed data, both sourced
// from a jobs.hcl block. It never calls the network analyzer or chat
// delivery; it is the data-driven counterpart to the built-in
// reference jobs, not a replacement for DailyReport.
type HCLJob struct {
	name        string
	rule        *Rule
	cooldownMs  int64
	notifyTitle string
	notifyBody  string
}

func (j *HCLJob) ID() string { return j.name }

// ShouldRun evaluates the job's CEL expression against the day-so-far
// metrics and the tick's local time, the same window
// ContinuousWorkAlert reads.
func (j *HCLJob) ShouldRun(jc *Context) (bool, error) {
	local := jc.Now.Add(jc.Offset)
	metrics, err := todayMetrics(jc, local)
	if err != nil {
		return false, err
	}

	return j.rule.Eval(RuleVars{
		Hour:                 local.Hour(),
		Minute:               local.Minute(),
		WorkSeconds:          metrics.WorkSeconds,
		MaxContinuousSeconds: metrics.MaxContinuousSeconds,
		NightWorkSeconds:     metrics.NightWorkSeconds,
	})
}

func (j *HCLJob) Run(jc *Context) (Result, error) {
	if j.cooldownMs > 0 {
		return NotifyWithCooldown(j.notifyTitle, j.notifyBody, "cooldown:"+j.name, j.cooldownMs), nil
	}
	return Notify(j.notifyTitle, j.notifyBody), nil
}

// LoadJobsHCL parses path into a list of HCLJob, compiling each job's
// should_run expression. A missing or unparsable file is a
// config_error; buildJobs checks that the file exists before calling
// and otherwise uses the built-in reference jobs.
func LoadJobsHCL(path string) ([]Job, error) {
	var parsed jobsFile
	if err := hclsimple.DecodeFile(path, nil, &parsed); err != nil {
		return nil, awerrors.Config(fmt.Sprintf("failed to parse jobs.hcl: %v", err))
	}

	jobs := make([]Job, 0, len(parsed.Jobs))
	for _, block := range parsed.Jobs {
		rule, err := CompileRule(block.ShouldRun)
		if err != nil {
			return nil, awerrors.Config(fmt.Sprintf("job %q: %v", block.Name, err))
		}
		jobs = append(jobs, &HCLJob{
			name:        block.Name,
			rule:        rule,
			cooldownMs:  block.CooldownMs,
			notifyTitle: block.NotifyTitle,
			notifyBody:  block.NotifyBody,
		})
	}
	return jobs, nil
}
