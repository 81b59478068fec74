package cron

import (
	"context"
	"time"
)

// SlipGenerator is the part of the payroll service the slip job drives.
type SlipGenerator interface {
	GeneratePendingSlips(ctx context.Context) (int, error)
}

type PayrollJobs struct {
	slips    SlipGenerator
	interval time.Duration
}

func NewPayrollJobs(slips SlipGenerator, interval time.Duration) *PayrollJobs {
	return &PayrollJobs{slips: slips, interval: interval}
}

func (j *PayrollJobs) RegisterJobs(scheduler *Scheduler) {
	scheduler.AddJob("render_pending_slips", j.interval, j.RenderPendingSlips)
}

// RenderPendingSlips stores PDFs for slips of approved and paid periods.
func (j *PayrollJobs) RenderPendingSlips(ctx context.Context) error {
	_, err := j.slips.GeneratePendingSlips(ctx)
	return err
}
