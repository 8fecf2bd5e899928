package yasno

import (
	"context"
	"sort"
	"strconv"
	"strings"

	"github.com/svitlo-tech/svitlo-tracker/internal/model"
)

// ResolveQueue fetches every operator (the provider has no per-queue
// endpoint) and looks up one queue. The three outcomes are distinct:
//   - operator missing (fetch failed or unknown code): nil schedule and the
//     global NoOutages flag as-is;
//   - operator present but queue key unknown: nil schedule, NoOutages false;
//   - queue found: its schedule plus the global NoOutages flag, which talks
//     about every queue, not just this one.
func (c *Client) ResolveQueue(ctx context.Context, operatorCode, queueNumber string) (*model.QueueSchedule, bool, error) {
	agg, err := c.FetchAll(ctx)
	if err != nil {
		return nil, false, err
	}

	op := findOperator(agg.Operators, operatorCode)
	if op == nil {
		return nil, agg.NoOutages, nil
	}

	queue, ok := op.Queues[queueNumber]
	if !ok {
		return nil, false, nil
	}
	return &queue, agg.NoOutages, nil
}

// AvailableQueues lists an operator's queue numbers sorted numerically,
// "1.1" < "1.2" < "2.1". Unknown operator yields an empty list.
func (c *Client) AvailableQueues(ctx context.Context, operatorCode string) ([]string, error) {
	agg, err := c.FetchAll(ctx)
	if err != nil {
		return nil, err
	}

	op := findOperator(agg.Operators, operatorCode)
	if op == nil {
		return nil, nil
	}

	queues := make([]string, 0, len(op.Queues))
	for q := range op.Queues {
		queues = append(queues, q)
	}
	sort.Slice(queues, func(i, j int) bool {
		iMain, iSub := splitQueueNumber(queues[i])
		jMain, jSub := splitQueueNumber(queues[j])
		if iMain != jMain {
			return iMain < jMain
		}
		return iSub < jSub
	})
	return queues, nil
}

func findOperator(operators []model.OperatorSchedule, code string) *model.OperatorSchedule {
	for i := range operators {
		if operators[i].OperatorCode == code {
			return &operators[i]
		}
	}
	return nil
}

func splitQueueNumber(q string) (int, int) {
	parts := strings.SplitN(q, ".", 2)
	main, _ := strconv.Atoi(parts[0])
	sub := 0
	if len(parts) == 2 {
		sub, _ = strconv.Atoi(parts[1])
	}
	return main, sub
}
