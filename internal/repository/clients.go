package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/url"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	rdsutils "github.com/aws/aws-sdk-go-v2/feature/rds/auth"
	"github.com/aws/aws-sdk-go-v2/service/rds"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	_ "github.com/lib/pq"
)

// Config holds what is needed to reach the chart archive database and the
// report bucket.
type Config struct {
	Profile      string // Primarily for dev purposes
	S3BucketName string
	Region       string

	DBInstanceID string // used to look up DBEndpoint when it is empty
	DBEndpoint   string // e.g. kundli.abc123xyz.eu-central-1.rds.amazonaws.com
	DBUser       string // an IAM-enabled database user
	DBName       string
	DBPort       int // e.g. 5432
}

type Clients struct {
	RDS    *RDSClient
	S3     *S3Client
	Config *Config
}

type S3Client struct {
	Client     *s3.Client
	BucketName string
}

// RDSClient wraps the PostgreSQL connection opened with an IAM auth token.
type RDSClient struct {
	Client *sql.DB
}

// DescribeDBInstancesAPI is the part of the RDS API used to resolve an
// instance identifier to its endpoint.
type DescribeDBInstancesAPI interface {
	DescribeDBInstances(ctx context.Context, in *rds.DescribeDBInstancesInput, optFns ...func(*rds.Options)) (*rds.DescribeDBInstancesOutput, error)
}

func (c *Config) LoadAWSConfig(ctx context.Context) (*aws.Config, error) {
	opts := []func(*config.LoadOptions) error{config.WithRegion(c.Region)}
	if c.Profile != "" {
		opts = append(opts, config.WithSharedConfigProfile(c.Profile))
	}

	cfg, err := config.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("unable to load SDK config: %w", err)
	}

	return &cfg, nil
}

// NewS3Client creates a new S3 client and stores the bucket name.
func NewS3Client(ctx context.Context, cfg *Config) (*S3Client, error) {
	if cfg.S3BucketName == "" {
		return nil, errors.New("no S3 bucket configured")
	}

	awsCfg, err := cfg.LoadAWSConfig(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config for S3 client: %w", err)
	}

	return &S3Client{
		Client:     s3.NewFromConfig(*awsCfg),
		BucketName: cfg.S3BucketName,
	}, nil
}

// ResolveDBEndpoint fills DBEndpoint (and DBPort when unset) from the RDS
// instance named by DBInstanceID. A configured DBEndpoint wins and no API
// call is made.
func (c *Config) ResolveDBEndpoint(ctx context.Context, api DescribeDBInstancesAPI) error {
	if c.DBEndpoint != "" {
		return nil
	}
	if c.DBInstanceID == "" {
		return errors.New("neither a DB endpoint nor a DB instance identifier is configured")
	}

	out, err := api.DescribeDBInstances(ctx, &rds.DescribeDBInstancesInput{
		DBInstanceIdentifier: aws.String(c.DBInstanceID),
	})
	if err != nil {
		return fmt.Errorf("failed to describe DB instance %s: %w", c.DBInstanceID, err)
	}
	if len(out.DBInstances) == 0 || out.DBInstances[0].Endpoint == nil {
		return fmt.Errorf("DB instance %s has no endpoint", c.DBInstanceID)
	}

	ep := out.DBInstances[0].Endpoint
	c.DBEndpoint = aws.ToString(ep.Address)
	if c.DBPort == 0 {
		c.DBPort = int(aws.ToInt32(ep.Port))
	}
	return nil
}

// connString builds a lib/pq URL using the auth token as the password.
func (c *Config) connString(authToken string) string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=require",
		url.QueryEscape(c.DBUser),
		url.QueryEscape(authToken),
		c.DBEndpoint,
		c.DBPort,
		url.QueryEscape(c.DBName),
	)
}

// NewRDSClient opens a PostgreSQL connection authenticated with an RDS IAM
// token and pings it.
func (c *Config) NewRDSClient(ctx context.Context) (*RDSClient, error) {
	awsCfg, err := c.LoadAWSConfig(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config for RDS: %w", err)
	}

	if err := c.ResolveDBEndpoint(ctx, rds.NewFromConfig(*awsCfg)); err != nil {
		return nil, err
	}

	// Signed locally, no API call.
	authToken, err := rdsutils.BuildAuthToken(
		ctx,
		fmt.Sprintf("%s:%d", c.DBEndpoint, c.DBPort),
		c.Region,
		c.DBUser,
		awsCfg.Credentials,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create authentication token: %w", err)
	}

	db, err := sql.Open("postgres", c.connString(authToken))
	if err != nil {
		return nil, fmt.Errorf("failed to open DB connection: %w", err)
	}

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping RDS PostgreSQL database: %w", err)
	}

	return &RDSClient{Client: db}, nil
}

// NewAWSClients creates the clients that are enabled: the archive database
// when withDB is set and the report bucket when withS3 is set.
func NewAWSClients(ctx context.Context, cfg *Config, withDB, withS3 bool) (*Clients, error) {
	clients := &Clients{Config: cfg}

	if withS3 {
		s3Client, err := NewS3Client(ctx, cfg)
		if err != nil {
			return nil, fmt.Errorf("error creating S3 client: %w", err)
		}
		clients.S3 = s3Client
	}

	if withDB {
		rdsClient, err := cfg.NewRDSClient(ctx)
		if err != nil {
			return nil, fmt.Errorf("error creating RDS client: %w", err)
		}
		clients.RDS = rdsClient
	}

	return clients, nil
}

// Close releases the database connection, if any.
func (c *Clients) Close() error {
	if c == nil || c.RDS == nil {
		return nil
	}
	return c.RDS.Client.Close()
}
