package services

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"sync"

	"cove_server/models"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

// fakeDynamo is an in-memory DynamoClient. It interprets the small subset
// of expression syntax the services actually issue, with real DynamoDB
// semantics for conditions, string sets and transactions, so service tests
// exercise the same code paths they hit in production.
type fakeDynamo struct {
	mu sync.Mutex

	// tables[table][keyString] = item
	tables map[string]map[string]map[string]types.AttributeValue
}

// tableKeys maps each table to its key attribute names, partition key first
var tableKeys = map[string][]string{
	models.CovesTable:        {"id"},
	models.CoveMemoriesTable: {"coveId", "sk"},
	models.UserProfilesTable: {"userId"},
}

func newFakeDynamo() *fakeDynamo {
	return &fakeDynamo{tables: map[string]map[string]map[string]types.AttributeValue{}}
}

func (f *fakeDynamo) table(name string) map[string]map[string]types.AttributeValue {
	t, ok := f.tables[name]
	if !ok {
		t = map[string]map[string]types.AttributeValue{}
		f.tables[name] = t
	}
	return t
}

func (f *fakeDynamo) keyString(table string, item map[string]types.AttributeValue) (string, error) {
	attrs, ok := tableKeys[table]
	if !ok {
		return "", fmt.Errorf("fake: unknown table %q", table)
	}
	parts := make([]string, 0, len(attrs))
	for _, attr := range attrs {
		s, ok := avString(item[attr])
		if !ok {
			return "", fmt.Errorf("fake: missing key attribute %q for table %q", attr, table)
		}
		parts = append(parts, s)
	}
	return strings.Join(parts, "|"), nil
}

func avString(av types.AttributeValue) (string, bool) {
	s, ok := av.(*types.AttributeValueMemberS)
	if !ok {
		return "", false
	}
	return s.Value, true
}

func avEqual(a, b types.AttributeValue) bool {
	switch av := a.(type) {
	case *types.AttributeValueMemberS:
		bv, ok := b.(*types.AttributeValueMemberS)
		return ok && av.Value == bv.Value
	case *types.AttributeValueMemberN:
		bv, ok := b.(*types.AttributeValueMemberN)
		return ok && av.Value == bv.Value
	case *types.AttributeValueMemberBOOL:
		bv, ok := b.(*types.AttributeValueMemberBOOL)
		return ok && av.Value == bv.Value
	}
	return false
}

func copyItem(item map[string]types.AttributeValue) map[string]types.AttributeValue {
	out := make(map[string]types.AttributeValue, len(item))
	for k, v := range item {
		out[k] = v
	}
	return out
}

func resolveName(name string, names map[string]string) string {
	if strings.HasPrefix(name, "#") {
		if resolved, ok := names[name]; ok {
			return resolved
		}
	}
	return name
}

// evalCondition evaluates an expression of AND-joined clauses against a
// stored item. item == nil means the key does not exist.
func evalCondition(expr string, item map[string]types.AttributeValue, values map[string]types.AttributeValue, names map[string]string) (bool, error) {
	for _, clause := range strings.Split(expr, " AND ") {
		clause = strings.TrimSpace(clause)
		ok, err := evalClause(clause, item, values, names)
		if err != nil {
			return false, err
		}
		if !ok {
			return false, nil
		}
	}
	return true, nil
}

func evalClause(clause string, item map[string]types.AttributeValue, values map[string]types.AttributeValue, names map[string]string) (bool, error) {
	switch {
	case strings.HasPrefix(clause, "attribute_exists("):
		attr := resolveName(inner(clause, "attribute_exists("), names)
		return item != nil && item[attr] != nil, nil

	case strings.HasPrefix(clause, "attribute_not_exists("):
		attr := resolveName(inner(clause, "attribute_not_exists("), names)
		return item == nil || item[attr] == nil, nil

	case strings.HasPrefix(clause, "NOT contains("):
		ok, err := evalContains(strings.TrimPrefix(clause, "NOT "), item, values, names)
		return !ok, err

	case strings.HasPrefix(clause, "contains("):
		return evalContains(clause, item, values, names)

	case strings.Contains(clause, " = "):
		parts := strings.SplitN(clause, " = ", 2)
		attr := resolveName(strings.TrimSpace(parts[0]), names)
		val, ok := values[strings.TrimSpace(parts[1])]
		if !ok {
			return false, fmt.Errorf("fake: unbound value %q in clause %q", parts[1], clause)
		}
		if item == nil || item[attr] == nil {
			return false, nil
		}
		return avEqual(item[attr], val), nil
	}
	return false, fmt.Errorf("fake: unsupported clause %q", clause)
}

func evalContains(clause string, item map[string]types.AttributeValue, values map[string]types.AttributeValue, names map[string]string) (bool, error) {
	args := strings.SplitN(inner(clause, "contains("), ",", 2)
	if len(args) != 2 {
		return false, fmt.Errorf("fake: malformed contains %q", clause)
	}
	attr := resolveName(strings.TrimSpace(args[0]), names)
	val, ok := values[strings.TrimSpace(args[1])]
	if !ok {
		return false, fmt.Errorf("fake: unbound value in %q", clause)
	}
	needle, ok := avString(val)
	if !ok {
		return false, fmt.Errorf("fake: contains needs a string operand in %q", clause)
	}
	if item == nil {
		return false, nil
	}
	switch target := item[attr].(type) {
	case *types.AttributeValueMemberSS:
		for _, member := range target.Value {
			if member == needle {
				return true, nil
			}
		}
		return false, nil
	case *types.AttributeValueMemberS:
		return strings.Contains(target.Value, needle), nil
	}
	return false, nil
}

func inner(clause, prefix string) string {
	s := strings.TrimPrefix(clause, prefix)
	return strings.TrimSuffix(s, ")")
}

// applyUpdate mutates item in place according to a SET or ADD expression
func applyUpdate(item map[string]types.AttributeValue, expr string, values map[string]types.AttributeValue, names map[string]string) error {
	switch {
	case strings.HasPrefix(expr, "SET "):
		for _, assign := range strings.Split(strings.TrimPrefix(expr, "SET "), ",") {
			parts := strings.SplitN(assign, "=", 2)
			if len(parts) != 2 {
				return fmt.Errorf("fake: malformed assignment %q", assign)
			}
			attr := resolveName(strings.TrimSpace(parts[0]), names)
			val, ok := values[strings.TrimSpace(parts[1])]
			if !ok {
				return fmt.Errorf("fake: unbound value in assignment %q", assign)
			}
			item[attr] = val
		}
		return nil

	case strings.HasPrefix(expr, "ADD "):
		fields := strings.Fields(strings.TrimPrefix(expr, "ADD "))
		if len(fields) != 2 {
			return fmt.Errorf("fake: malformed ADD %q", expr)
		}
		attr := resolveName(fields[0], names)
		val, ok := values[fields[1]]
		if !ok {
			return fmt.Errorf("fake: unbound value in %q", expr)
		}
		switch v := val.(type) {
		case *types.AttributeValueMemberN:
			current := int64(0)
			if existing, ok := item[attr].(*types.AttributeValueMemberN); ok {
				parsed, err := strconv.ParseInt(existing.Value, 10, 64)
				if err != nil {
					return err
				}
				current = parsed
			}
			delta, err := strconv.ParseInt(v.Value, 10, 64)
			if err != nil {
				return err
			}
			item[attr] = &types.AttributeValueMemberN{Value: strconv.FormatInt(current+delta, 10)}
			return nil
		case *types.AttributeValueMemberSS:
			existing := []string{}
			if set, ok := item[attr].(*types.AttributeValueMemberSS); ok {
				existing = append(existing, set.Value...)
			}
			for _, member := range v.Value {
				found := false
				for _, have := range existing {
					if have == member {
						found = true
						break
					}
				}
				if !found {
					existing = append(existing, member)
				}
			}
			item[attr] = &types.AttributeValueMemberSS{Value: existing}
			return nil
		}
		return fmt.Errorf("fake: unsupported ADD operand in %q", expr)
	}
	return fmt.Errorf("fake: unsupported update expression %q", expr)
}

func conditionFailed() error {
	return &types.ConditionalCheckFailedException{Message: aws.String("The conditional request failed")}
}

func (f *fakeDynamo) GetItem(ctx context.Context, params *dynamodb.GetItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.GetItemOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	ks, err := f.keyString(*params.TableName, params.Key)
	if err != nil {
		return nil, err
	}
	item, ok := f.table(*params.TableName)[ks]
	if !ok {
		return &dynamodb.GetItemOutput{}, nil
	}
	return &dynamodb.GetItemOutput{Item: copyItem(item)}, nil
}

func (f *fakeDynamo) PutItem(ctx context.Context, params *dynamodb.PutItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if err := f.put(*params.TableName, params.Item, params.ConditionExpression, params.ExpressionAttributeValues); err != nil {
		return nil, err
	}
	return &dynamodb.PutItemOutput{}, nil
}

func (f *fakeDynamo) put(table string, item map[string]types.AttributeValue, condition *string, values map[string]types.AttributeValue) error {
	ks, err := f.keyString(table, item)
	if err != nil {
		return err
	}
	t := f.table(table)
	if condition != nil {
		existing, ok := t[ks]
		var current map[string]types.AttributeValue
		if ok {
			current = existing
		}
		pass, err := evalCondition(*condition, current, values, nil)
		if err != nil {
			return err
		}
		if !pass {
			return conditionFailed()
		}
	}
	t[ks] = copyItem(item)
	return nil
}

func (f *fakeDynamo) UpdateItem(ctx context.Context, params *dynamodb.UpdateItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.UpdateItemOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	updated, err := f.update(*params.TableName, params.Key, *params.UpdateExpression, params.ConditionExpression, params.ExpressionAttributeValues, params.ExpressionAttributeNames)
	if err != nil {
		return nil, err
	}
	return &dynamodb.UpdateItemOutput{Attributes: copyItem(updated)}, nil
}

func (f *fakeDynamo) update(table string, key map[string]types.AttributeValue, expr string, condition *string, values map[string]types.AttributeValue, names map[string]string) (map[string]types.AttributeValue, error) {
	ks, err := f.keyString(table, key)
	if err != nil {
		return nil, err
	}
	t := f.table(table)
	existing, ok := t[ks]
	var current map[string]types.AttributeValue
	if ok {
		current = existing
	}
	if condition != nil {
		pass, err := evalCondition(*condition, current, values, names)
		if err != nil {
			return nil, err
		}
		if !pass {
			return nil, conditionFailed()
		}
	}

	// updating a missing key creates the item, as DynamoDB does
	var item map[string]types.AttributeValue
	if current != nil {
		item = copyItem(current)
	} else {
		item = copyItem(key)
	}
	if err := applyUpdate(item, expr, values, names); err != nil {
		return nil, err
	}
	t[ks] = item
	return item, nil
}

func (f *fakeDynamo) DeleteItem(ctx context.Context, params *dynamodb.DeleteItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.DeleteItemOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	ks, err := f.keyString(*params.TableName, params.Key)
	if err != nil {
		return nil, err
	}
	delete(f.table(*params.TableName), ks)
	return &dynamodb.DeleteItemOutput{}, nil
}

func (f *fakeDynamo) Query(ctx context.Context, params *dynamodb.QueryInput, optFns ...func(*dynamodb.Options)) (*dynamodb.QueryOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	var matches []map[string]types.AttributeValue
	for _, item := range f.table(*params.TableName) {
		pass, err := evalKeyCondition(*params.KeyConditionExpression, item, params.ExpressionAttributeValues, params.ExpressionAttributeNames)
		if err != nil {
			return nil, err
		}
		if pass {
			matches = append(matches, copyItem(item))
		}
	}

	sortAttr := "sk"
	if params.IndexName != nil && *params.IndexName == models.SourceCreatedAtIndex {
		sortAttr = "createdAt"
	}
	sort.SliceStable(matches, func(i, j int) bool {
		a, _ := avString(matches[i][sortAttr])
		b, _ := avString(matches[j][sortAttr])
		return a < b
	})
	if params.ScanIndexForward != nil && !*params.ScanIndexForward {
		for i, j := 0, len(matches)-1; i < j; i, j = i+1, j-1 {
			matches[i], matches[j] = matches[j], matches[i]
		}
	}
	if params.Limit != nil && int(*params.Limit) < len(matches) {
		matches = matches[:*params.Limit]
	}
	return &dynamodb.QueryOutput{Items: matches}, nil
}

// evalKeyCondition treats begins_with as the only non-equality key operator,
// which is all the key conditions in this codebase use
func evalKeyCondition(expr string, item map[string]types.AttributeValue, values map[string]types.AttributeValue, names map[string]string) (bool, error) {
	for _, clause := range strings.Split(expr, " AND ") {
		clause = strings.TrimSpace(clause)
		if strings.HasPrefix(clause, "begins_with(") {
			args := strings.SplitN(inner(clause, "begins_with("), ",", 2)
			if len(args) != 2 {
				return false, fmt.Errorf("fake: malformed begins_with %q", clause)
			}
			attr := resolveName(strings.TrimSpace(args[0]), names)
			val, ok := values[strings.TrimSpace(args[1])]
			if !ok {
				return false, fmt.Errorf("fake: unbound value in %q", clause)
			}
			prefix, _ := avString(val)
			have, _ := avString(item[attr])
			if !strings.HasPrefix(have, prefix) {
				return false, nil
			}
			continue
		}
		pass, err := evalClause(clause, item, values, names)
		if err != nil {
			return false, err
		}
		if !pass {
			return false, nil
		}
	}
	return true, nil
}

func (f *fakeDynamo) Scan(ctx context.Context, params *dynamodb.ScanInput, optFns ...func(*dynamodb.Options)) (*dynamodb.ScanOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	var matches []map[string]types.AttributeValue
	for _, item := range f.table(*params.TableName) {
		if params.FilterExpression != nil {
			pass, err := evalCondition(*params.FilterExpression, item, params.ExpressionAttributeValues, params.ExpressionAttributeNames)
			if err != nil {
				return nil, err
			}
			if !pass {
				continue
			}
		}
		matches = append(matches, copyItem(item))
	}
	return &dynamodb.ScanOutput{Items: matches}, nil
}

func (f *fakeDynamo) TransactWriteItems(ctx context.Context, params *dynamodb.TransactWriteItemsInput, optFns ...func(*dynamodb.Options)) (*dynamodb.TransactWriteItemsOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	// first pass: every condition must hold against the pre-transaction state
	reasons := make([]types.CancellationReason, len(params.TransactItems))
	failed := false
	for i, tw := range params.TransactItems {
		pass, err := f.checkTransactCondition(tw)
		if err != nil {
			return nil, err
		}
		if pass {
			reasons[i] = types.CancellationReason{Code: aws.String("None")}
		} else {
			reasons[i] = types.CancellationReason{Code: aws.String("ConditionalCheckFailed")}
			failed = true
		}
	}
	if failed {
		return nil, &types.TransactionCanceledException{
			Message:             aws.String("Transaction cancelled"),
			CancellationReasons: reasons,
		}
	}

	// second pass: apply
	for _, tw := range params.TransactItems {
		switch {
		case tw.Put != nil:
			if err := f.put(*tw.Put.TableName, tw.Put.Item, nil, nil); err != nil {
				return nil, err
			}
		case tw.Delete != nil:
			ks, err := f.keyString(*tw.Delete.TableName, tw.Delete.Key)
			if err != nil {
				return nil, err
			}
			delete(f.table(*tw.Delete.TableName), ks)
		case tw.Update != nil:
			if _, err := f.update(*tw.Update.TableName, tw.Update.Key, *tw.Update.UpdateExpression, nil, tw.Update.ExpressionAttributeValues, tw.Update.ExpressionAttributeNames); err != nil {
				return nil, err
			}
		}
	}
	return &dynamodb.TransactWriteItemsOutput{}, nil
}

func (f *fakeDynamo) checkTransactCondition(tw types.TransactWriteItem) (bool, error) {
	var table string
	var keySource map[string]types.AttributeValue
	var condition *string
	var values map[string]types.AttributeValue
	var names map[string]string

	switch {
	case tw.Put != nil:
		table, keySource, condition = *tw.Put.TableName, tw.Put.Item, tw.Put.ConditionExpression
		values, names = tw.Put.ExpressionAttributeValues, tw.Put.ExpressionAttributeNames
	case tw.Delete != nil:
		table, keySource, condition = *tw.Delete.TableName, tw.Delete.Key, tw.Delete.ConditionExpression
		values, names = tw.Delete.ExpressionAttributeValues, tw.Delete.ExpressionAttributeNames
	case tw.Update != nil:
		table, keySource, condition = *tw.Update.TableName, tw.Update.Key, tw.Update.ConditionExpression
		values, names = tw.Update.ExpressionAttributeValues, tw.Update.ExpressionAttributeNames
	default:
		return false, fmt.Errorf("fake: empty transact item")
	}

	if condition == nil {
		return true, nil
	}
	ks, err := f.keyString(table, keySource)
	if err != nil {
		return false, err
	}
	var current map[string]types.AttributeValue
	if existing, ok := f.table(table)[ks]; ok {
		current = existing
	}
	return evalCondition(*condition, current, values, names)
}

func (f *fakeDynamo) BatchWriteItem(ctx context.Context, params *dynamodb.BatchWriteItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.BatchWriteItemOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	for table, requests := range params.RequestItems {
		for _, req := range requests {
			switch {
			case req.PutRequest != nil:
				if err := f.put(table, req.PutRequest.Item, nil, nil); err != nil {
					return nil, err
				}
			case req.DeleteRequest != nil:
				ks, err := f.keyString(table, req.DeleteRequest.Key)
				if err != nil {
					return nil, err
				}
				delete(f.table(table), ks)
			}
		}
	}
	return &dynamodb.BatchWriteItemOutput{}, nil
}

// itemCount reports how many items a table holds, for cascade assertions
func (f *fakeDynamo) itemCount(table string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.table(table))
}
