package records

import (
	"context"
	"errors"
	"log"
	"time"

	"Backend-FormForge/src/binding"
	"Backend-FormForge/src/database"
	"Backend-FormForge/src/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

var tableCollection *mongo.Collection

func init() {
	// เชื่อมต่อกับ MongoDB
	if err := database.ConnectMongoDB(); err != nil {
		log.Fatal("MongoDB connection error:", err)
	}

	tableCollection = database.TableCollection
	if tableCollection == nil {
		log.Fatal("Failed to get the tables collection")
	}
}

var (
	ErrTableNotFound = errors.New("table entry not found")
	ErrInvalidLevel  = errors.New("invalid level")

	ErrNotLoaded  = errors.New("table entry could not be loaded")
	ErrNotCreated = errors.New("table entry could not be created")
	ErrNotUpdated = errors.New("table entry could not be updated")
	ErrNotDeleted = errors.New("table entry could not be deleted")
)

// GetTables ดึง records ทั้งหมดแบบแบ่งหน้า (ใหม่สุดก่อน)
func GetTables(ctx context.Context, params models.PaginationParams) (*models.PaginatedResponse, error) {
	total, err := tableCollection.CountDocuments(ctx, bson.M{})
	if err != nil {
		return nil, ErrNotLoaded
	}

	opts := options.Find().
		SetSkip(params.GetSkip()).
		SetLimit(int64(params.Limit)).
		SetSort(bson.D{{Key: "created_at", Value: -1}})

	cursor, err := tableCollection.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, ErrNotLoaded
	}
	defer cursor.Close(ctx)

	var entries []models.Record
	if err = cursor.All(ctx, &entries); err != nil {
		return nil, ErrNotLoaded
	}

	return models.NewPaginatedResponse(entries, total, params), nil
}

// GetTableByID ดึง record เดียว
func GetTableByID(ctx context.Context, id primitive.ObjectID) (*models.Record, error) {
	var entry models.Record
	err := tableCollection.FindOne(ctx, bson.M{"_id": id}).Decode(&entry)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrTableNotFound
		}
		return nil, ErrNotLoaded
	}
	return &entry, nil
}

// SaveTable บันทึก record ใหม่เป็น snapshot ที่ขาดจาก template โดยสมบูรณ์
// lineDetails ถูกคำนวณใหม่จาก lines ก่อนเขียนเสมอ เพื่อไม่ให้ยอดรวมค้างค่าเก่า
func SaveTable(ctx context.Context, entry *models.Record) (*models.Record, error) {
	entry.ID = primitive.NewObjectID()
	entry.CreatedAt = time.Now()
	if entry.Header == nil {
		entry.Header = models.SectionForest{}
	}
	if entry.Lines == nil {
		entry.Lines = models.SectionForest{}
	}
	entry.LineDetails = binding.RecomputeAggregates(entry.Lines, entry.LineDetails)

	if _, err := tableCollection.InsertOne(ctx, entry); err != nil {
		return nil, ErrNotCreated
	}
	return entry, nil
}

// UpdateTable เขียนทับทั้งสาม levels ของ record (whole-record overwrite)
func UpdateTable(ctx context.Context, id primitive.ObjectID, req models.RecordUpdateRequest) (*models.Record, error) {
	if req.Header == nil {
		req.Header = models.SectionForest{}
	}
	if req.Lines == nil {
		req.Lines = models.SectionForest{}
	}
	lineDetails := binding.RecomputeAggregates(req.Lines, req.LineDetails)

	result, err := tableCollection.UpdateOne(ctx,
		bson.M{"_id": id},
		bson.M{"$set": bson.M{
			"header":      req.Header,
			"lines":       req.Lines,
			"lineDetails": lineDetails,
		}},
	)
	if err != nil {
		return nil, ErrNotUpdated
	}
	if result.MatchedCount == 0 {
		return nil, ErrTableNotFound
	}
	return GetTableByID(ctx, id)
}

// DeleteTable ลบ record
func DeleteTable(ctx context.Context, id primitive.ObjectID) error {
	result, err := tableCollection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return ErrNotDeleted
	}
	if result.DeletedCount == 0 {
		return ErrTableNotFound
	}
	return nil
}

// persistEdit เขียน record หลังผ่าน binding engine กลับลง store
func persistEdit(ctx context.Context, entry *models.Record) (*models.Record, error) {
	// การแก้ lines ทำให้ยอดรวมใน lineDetails ขยับตาม
	entry.LineDetails = binding.RecomputeAggregates(entry.Lines, entry.LineDetails)

	result, err := tableCollection.UpdateOne(ctx,
		bson.M{"_id": entry.ID},
		bson.M{"$set": bson.M{
			"header":      entry.Header,
			"lines":       entry.Lines,
			"lineDetails": entry.LineDetails,
		}},
	)
	if err != nil {
		return nil, ErrNotUpdated
	}
	if result.MatchedCount == 0 {
		return nil, ErrTableNotFound
	}
	return entry, nil
}

// ApplyFieldEdit แก้ค่า field เดียวผ่าน binding engine แล้ว persist
func ApplyFieldEdit(ctx context.Context, id primitive.ObjectID, req models.FieldEditRequest) (*models.Record, error) {
	if !models.IsValidLevel(req.Level) {
		return nil, ErrInvalidLevel
	}
	entry, err := GetTableByID(ctx, id)
	if err != nil {
		return nil, err
	}
	forest := binding.SetFieldValue(entry.Forest(req.Level), req.TabID, req.FieldID, req.Value)
	entry.SetForest(req.Level, forest)
	return persistEdit(ctx, entry)
}

// ApplyCellEdit แก้ cell เดียวใน table field (calculated columns ของแถวนั้น
// ถูกคำนวณใหม่ใน binding engine) แล้ว persist
func ApplyCellEdit(ctx context.Context, id primitive.ObjectID, req models.CellEditRequest) (*models.Record, error) {
	if !models.IsValidLevel(req.Level) {
		return nil, ErrInvalidLevel
	}
	entry, err := GetTableByID(ctx, id)
	if err != nil {
		return nil, err
	}
	forest := binding.SetCellValue(entry.Forest(req.Level), req.TabID, req.FieldID, req.RowIndex, req.ColumnName, req.Value)
	entry.SetForest(req.Level, forest)
	return persistEdit(ctx, entry)
}

// InsertRow เพิ่มแถวว่างหนึ่งแถวใน table field แล้ว persist
func InsertRow(ctx context.Context, id primitive.ObjectID, req models.InsertRowRequest) (*models.Record, error) {
	if !models.IsValidLevel(req.Level) {
		return nil, ErrInvalidLevel
	}
	entry, err := GetTableByID(ctx, id)
	if err != nil {
		return nil, err
	}
	forest := binding.InsertRow(entry.Forest(req.Level), req.TabID, req.FieldID, nil)
	entry.SetForest(req.Level, forest)
	return persistEdit(ctx, entry)
}

// ComputeHeaderColumns รวบรวมชื่อ field ที่ไม่ซ้ำจาก header ของทุก record
// (เรียงตามลำดับที่เจอครั้งแรก) สำหรับหัวตารางของ table view
func ComputeHeaderColumns(ctx context.Context) ([]string, error) {
	cursor, err := tableCollection.Find(ctx, bson.M{})
	if err != nil {
		return nil, ErrNotLoaded
	}
	defer cursor.Close(ctx)

	var entries []models.Record
	if err = cursor.All(ctx, &entries); err != nil {
		return nil, ErrNotLoaded
	}
	return HeaderColumns(entries), nil
}

// HeaderColumns คือส่วน pure ของ ComputeHeaderColumns
func HeaderColumns(entries []models.Record) []string {
	seen := make(map[string]bool)
	headers := []string{}
	for _, entry := range entries {
		for _, tab := range entry.Header {
			for _, field := range tab.Fields {
				if !seen[field.FieldName] {
					seen[field.FieldName] = true
					headers = append(headers, field.FieldName)
				}
			}
		}
	}
	return headers
}

// TableView flatten ทุก record เป็นตารางเดียว: หนึ่งแถวต่อ record
// คอลัมน์คือชื่อ field ใน header ของทุก record รวมกัน
func TableView(ctx context.Context) ([]string, []map[string]interface{}, error) {
	cursor, err := tableCollection.Find(ctx, bson.M{},
		options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}}))
	if err != nil {
		return nil, nil, ErrNotLoaded
	}
	defer cursor.Close(ctx)

	var entries []models.Record
	if err = cursor.All(ctx, &entries); err != nil {
		return nil, nil, ErrNotLoaded
	}

	headers := HeaderColumns(entries)
	rows := make([]map[string]interface{}, 0, len(entries))
	for _, entry := range entries {
		row := map[string]interface{}{"ID": entry.ID.Hex()}
		for _, name := range headers {
			row[name] = ""
		}
		for _, tab := range entry.Header {
			for _, field := range tab.Fields {
				if field.FieldValue != nil {
					row[field.FieldName] = field.FieldValue
				}
			}
		}
		rows = append(rows, row)
	}
	return headers, rows, nil
}
